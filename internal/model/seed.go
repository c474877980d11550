package model

import "time"

// SeedListings returns the eight-listing Ahmedabad corpus used by the CLI,
// the in-memory store and the seed migration.
func SeedListings() []Listing {
	base := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	at := func(days int) time.Time { return base.AddDate(0, 0, days) }

	return []Listing{
		{
			ID: 1, Category: CategoryResidentialRent, Location: "CG Road",
			Address: "12 Swastik Society, CG Road, Ahmedabad", Price: Float(25000),
			Configuration: "2 BHK", Area: Float(1100), Furnished: FurnishedSemi, Age: AgeOneToFiveYears,
			ContactNumber: "9876543210", AgentID: 2,
			Features: "Parking, Lift, Power backup, Gym", Parking: true, Lift: true,
			Active: true, CreatedAt: at(0),
		},
		{
			ID: 2, Category: CategoryResidentialSell, Location: "Satellite",
			Address: "B-402 Shivalik Heights, Satellite, Ahmedabad", Price: Float(4500000),
			Configuration: "3 BHK", Area: Float(1650), Furnished: FurnishedFully, Age: AgeNewlyBuilt,
			ContactNumber: "9876501234", AgentID: 2,
			Features: "Swimming pool, Gym, Clubhouse", Parking: true, Lift: true,
			Active: true, CreatedAt: at(3),
		},
		{
			ID: 3, Category: CategoryCommercialRent, Location: "SG Highway",
			Address: "701 Titanium City Centre, SG Highway, Ahmedabad", Price: Float(60000),
			Configuration: "Office", Area: Float(1200), Furnished: FurnishedFully, Age: AgeOneToFiveYears,
			ContactNumber: "9824012345", AgentID: 2,
			Features: "Conference room, Parking, Lift", Parking: true, Lift: true,
			Active: true, CreatedAt: at(5),
		},
		{
			ID: 4, Category: CategoryCommercialSell, Location: "Navrangpura",
			Address: "Shop 4, Ground Floor, Navrangpura, Ahmedabad", Price: Float(3500000),
			Configuration: "Shop", Area: Float(450), Furnished: Unfurnished, Age: AgeFivePlusYears,
			ContactNumber: "9898011122", AgentID: 5,
			Features: "Main road frontage, Power backup", Parking: false, Lift: false,
			Active: true, CreatedAt: at(8),
		},
		{
			ID: 5, Category: CategoryResidentialRent, Location: "Maninagar",
			Address: "7 Jawahar Chowk, Maninagar, Ahmedabad", Price: Float(18000),
			Configuration: "1 BHK", Area: Float(600), Furnished: Unfurnished, Age: AgeFivePlusYears,
			ContactNumber: "9727033344", AgentID: 2,
			Features: "Water supply 24x7", Parking: false, Lift: false,
			Active: true, CreatedAt: at(10),
		},
		{
			ID: 6, Category: CategoryResidentialSell, Location: "Bopal",
			Address: "C-12 Applewoods Township, Bopal, Ahmedabad", Price: Float(3200000),
			Configuration: "2 BHK", Area: Float(1150), Furnished: FurnishedSemi, Age: AgeUnderConstruction,
			ContactNumber: "9909055566", AgentID: 5,
			Features: "Garden, Gym, Parking", Parking: true, Lift: true,
			Active: true, CreatedAt: at(12),
		},
		{
			ID: 7, Category: CategoryResidentialRent, Location: "Vastrapur",
			Address: "A-9 Lake View Apartments, Vastrapur, Ahmedabad", Price: Float(35000),
			Configuration: "3 BHK", Area: Float(1500), Furnished: FurnishedFully, Age: AgeOneToFiveYears,
			ContactNumber: "9712077788", AgentID: 5,
			Features: "Swimming pool, Parking, Lift", Parking: true, Lift: true,
			Active: true, CreatedAt: at(15),
		},
		{
			ID: 8, Category: CategoryResidentialSell, Location: "Chandkheda",
			Address: "D-204 Shukan Residency, Chandkheda, Ahmedabad", Price: Float(2200000),
			Configuration: "1 BHK", Area: Float(550), Furnished: FurnishedSemi, Age: AgeNewlyBuilt,
			ContactNumber: "9825099900", AgentID: 2,
			Features: "Lift, Security", Parking: false, Lift: true,
			Active: true, CreatedAt: at(18),
		},
	}
}
