package seeders

import (
	"log"
	"time"

	guestModel "guest-messaging/models/guest"
	reservationModel "guest-messaging/models/reservation"

	"gorm.io/gorm"
)

// SeedDemoData inserts a small set of guests and reservations for local
// development. Rows are keyed by phone number so re-running the seeder only
// fills gaps, never duplicates.
func SeedDemoData(db *gorm.DB) {
	log.Printf("🔍 Checking demo guest and reservation data...")

	guests := []guestModel.Guest{
		{FirstName: "Avery", LastName: "Stone", Phone: "+15551230001", Email: "avery.stone@example.com"},
		{FirstName: "Jordan", LastName: "Reyes", Phone: "+15551230002", Email: "jordan.reyes@example.com"},
		{Name: "M. Okafor", Phone: "+15551230003", Email: "m.okafor@example.com"},
	}

	var existingPhones []string
	if err := db.Model(&guestModel.Guest{}).Pluck("phone", &existingPhones).Error; err != nil {
		log.Printf("❌ Failed to fetch existing guest phones: %v", err)
		return
	}
	existingPhonesMap := make(map[string]bool)
	for _, p := range existingPhones {
		existingPhonesMap[p] = true
	}

	guestByPhone := make(map[string]uint)
	seeded := 0
	for _, g := range guests {
		if existingPhonesMap[g.Phone] {
			var row guestModel.Guest
			if err := db.Where("phone = ?", g.Phone).First(&row).Error; err == nil {
				guestByPhone[g.Phone] = row.ID
			}
			continue
		}
		if err := db.Create(&g).Error; err != nil {
			log.Printf("❌ Failed to seed guest %s: %v", g.Phone, err)
			continue
		}
		guestByPhone[g.Phone] = g.ID
		seeded++
	}

	checkin := time.Now().UTC().Truncate(24 * time.Hour)
	reservations := []reservationModel.Reservation{
		{
			GuestRecordID: guestByPhone["+15551230001"],
			GuestName:     "Avery Stone",
			GuestPhone:    "555 123 0001",
			GuestEmail:    "avery.stone@example.com",
			PropertyName:  "Seaview Cottage",
			Checkin:       checkin.AddDate(0, 0, 3),
			Checkout:      checkin.AddDate(0, 0, 10),
		},
		{
			GuestRecordID: guestByPhone["+15551230002"],
			GuestName:     "Jordan Reyes",
			GuestPhone:    "(555) 123-0002",
			GuestEmail:    "jordan.reyes@example.com",
			PropertyName:  "Harbor Loft",
			Checkin:       checkin.AddDate(0, 0, 7),
			Checkout:      checkin.AddDate(0, 0, 9),
		},
		// Legacy-shaped row: snapshot only, never linked to a profile.
		{
			GuestName:    "Walk-in Guest",
			GuestPhone:   "5551230099",
			PropertyName: "Pine Ridge Cabin",
			Checkin:      checkin.AddDate(0, 0, 1),
			Checkout:     checkin.AddDate(0, 0, 2),
		},
	}

	for _, r := range reservations {
		var count int64
		if err := db.Model(&reservationModel.Reservation{}).Where("guest_phone = ?", r.GuestPhone).Count(&count).Error; err != nil || count > 0 {
			continue
		}
		if err := db.Create(&r).Error; err != nil {
			log.Printf("❌ Failed to seed reservation for %s: %v", r.GuestName, err)
			continue
		}
		seeded++
	}

	if seeded == 0 {
		log.Printf("✅ Demo data already present. No seeding needed.")
		return
	}
	log.Printf("🎉 Seeding completed! Inserted %d demo rows", seeded)
}
