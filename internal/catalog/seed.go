package catalog

import "github.com/iliyamo/museum-reservation/internal/model"

// Seed returns the built-in museum list.
func Seed() []model.Museum {
	return []model.Museum{
		{
			ID:             "national-museum-delhi",
			Name:           "National Museum, New Delhi",
			Description:    "One of the largest museums in India with over 200,000 works of art spanning 5,000 years of Indian cultural heritage.",
			Location:       "Janpath, New Delhi",
			TotalSlots:     200,
			AvailableSlots: 45,
			TicketPrice:    100,
			Timings:        []string{"10:00-11:00 AM", "11:00-12:00 PM", "2:00-3:00 PM", "3:00-4:00 PM", "4:00-5:00 PM"},
			Features:       []string{"Ancient Artifacts", "Sculpture Gallery", "Miniature Paintings", "Coin Collection"},
		},
		{
			ID:             "indian-museum-kolkata",
			Name:           "Indian Museum, Kolkata",
			Description:    "The oldest and largest multipurpose museum in India and the Asia-Pacific region.",
			Location:       "Park Street, Kolkata",
			TotalSlots:     150,
			AvailableSlots: 78,
			TicketPrice:    100,
			Timings:        []string{"10:00-11:00 AM", "11:00-12:00 PM", "2:00-3:00 PM", "3:00-4:00 PM"},
			Features:       []string{"Natural History", "Egyptian Mummies", "Fossil Collection", "Buddhist Art"},
		},
		{
			ID:             "prince-wales-mumbai",
			Name:           "Chhatrapati Shivaji Maharaj Vastu Sangrahalaya, Mumbai",
			Description:    "Formerly Prince of Wales Museum, showcasing ancient Indian history, fine arts, and natural history.",
			Location:       "Fort District, Mumbai",
			TotalSlots:     180,
			AvailableSlots: 12,
			TicketPrice:    100,
			Timings:        []string{"10:00-11:00 AM", "11:00-12:00 PM", "2:00-3:00 PM", "4:00-5:00 PM"},
			Features:       []string{"Miniature Paintings", "Decorative Arts", "Arms & Armour", "Natural History"},
		},
		{
			ID:             "government-museum-chennai",
			Name:           "Government Museum, Chennai",
			Description:    "Second oldest museum in India with rich collections of archaeological and numismatic sections.",
			Location:       "Egmore, Chennai",
			TotalSlots:     120,
			AvailableSlots: 95,
			TicketPrice:    100,
			Timings:        []string{"10:00-11:00 AM", "2:00-3:00 PM", "3:00-4:00 PM", "4:00-5:00 PM"},
			Features:       []string{"Bronze Gallery", "Archaeology", "Anthropology", "Botany"},
		},
		{
			ID:             "salar-jung-hyderabad",
			Name:           "Salar Jung Museum, Hyderabad",
			Description:    "One of India's three National Museums with the world's largest one-man collection of antiques.",
			Location:       "Darushifa, Hyderabad",
			TotalSlots:     160,
			AvailableSlots: 134,
			TicketPrice:    100,
			Timings:        []string{"10:00-11:00 AM", "11:00-12:00 PM", "2:00-3:00 PM", "3:00-4:00 PM"},
			Features:       []string{"Jade Collection", "Manuscripts", "Clocks", "Textiles"},
		},
	}
}
