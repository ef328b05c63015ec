package storage

import "github.com/kendall-kelly/design-orders-panel/models"

// SeedOrders returns the demo orders written on first run
func SeedOrders() []models.Record {
	orders := []models.Order{
		{
			ID:                      "ORD-1704123456789",
			ClientName:              "Sarah Johnson",
			Email:                   "sarah.johnson@techstartup.com",
			Phone:                   "+1-555-0123",
			Company:                 "TechStartup Inc.",
			ProjectType:             "branding",
			Services:                []string{"Logo Design", "Business Card Design", "Website Graphics", "Social Media Graphics"},
			ProjectTitle:            "Complete Brand Identity for Tech Startup",
			Description:             "We're a new fintech startup looking for a modern, professional brand identity. We want something that conveys trust, innovation, and accessibility. Our target market is young professionals aged 25-40 who are tech-savvy but want simple financial solutions.",
			Budget:                  "2500-5000",
			Deadline:                "2024-03-15",
			Priority:                models.PriorityHigh,
			Status:                  models.StatusInProgress,
			CommunicationPreference: models.CommunicationEmail,
			RevisionRounds:          "3",
			FileFormat:              []string{"PNG", "SVG", "PDF", "AI"},
			ColorPreferences:        "Blue and white with accent colors, modern corporate palette",
			TargetAudience:          "Young professionals, tech-savvy millennials, small business owners",
			AdditionalNotes:         "Please include variations for dark and light backgrounds. We'll need the logo in horizontal and stacked versions.",
			CreatedAt:               "2024-01-15T10:30:00Z",
			UpdatedAt:               "2024-01-18T14:22:00Z",
		},
		{
			ID:                      "ORD-1704098765432",
			ClientName:              "Michael Chen",
			Email:                   "m.chen@restaurantgroup.com",
			Phone:                   "+1-555-0456",
			Company:                 "Golden Dragon Restaurant Group",
			ProjectType:             "print-design",
			Services:                []string{"Menu Design", "Print Design", "Brochure Design"},
			ProjectTitle:            "Restaurant Menu Redesign",
			Description:             "Need to redesign our restaurant menu with a more modern, appetizing look. Current menu feels outdated and doesn't showcase our dishes well.",
			Budget:                  "500-1000",
			Deadline:                "2024-02-28",
			Priority:                models.PriorityNormal,
			Status:                  models.StatusPending,
			CommunicationPreference: models.CommunicationPhone,
			RevisionRounds:          "2",
			FileFormat:              []string{"PDF", "PNG"},
			ColorPreferences:        "Warm colors, gold accents, elegant feel",
			TargetAudience:          "Families, food enthusiasts, upscale dining customers",
			AdditionalNotes:         "Menu should be easy to read with good food photography integration",
			CreatedAt:               "2024-01-12T09:15:00Z",
			UpdatedAt:               "2024-01-12T09:15:00Z",
		},
		{
			ID:                      "ORD-1703987654321",
			ClientName:              "Emily Rodriguez",
			Email:                   "emily.r.author@gmail.com",
			Phone:                   "+1-555-0789",
			ProjectType:             "illustration",
			Services:                []string{"Book Cover Design", "Illustration", "Character Design"},
			ProjectTitle:            "Fantasy Novel Book Cover",
			Description:             "I'm an indie author publishing my first fantasy novel. Need an eye-catching book cover that will stand out on Amazon and in bookstores. The story involves dragons, magic, and a strong female protagonist.",
			Budget:                  "under-500",
			Deadline:                "2024-02-10",
			Priority:                models.PriorityUrgent,
			Status:                  models.StatusCompleted,
			CommunicationPreference: models.CommunicationEmail,
			RevisionRounds:          "unlimited",
			FileFormat:              []string{"JPG", "PNG", "PDF"},
			ColorPreferences:        "Dark, mystical colors with magical elements",
			TargetAudience:          "Fantasy readers, young adults, book lovers",
			AdditionalNotes:         "Need both ebook and print versions. Should work well as a thumbnail image.",
			CreatedAt:               "2024-01-05T16:45:00Z",
			UpdatedAt:               "2024-01-20T11:30:00Z",
		},
		{
			ID:                      "ORD-1704234567890",
			ClientName:              "David Thompson",
			Email:                   "david@fitnessstudio.com",
			Phone:                   "+1-555-0321",
			Company:                 "PowerFit Gym",
			ProjectType:             "digital-art",
			Services:                []string{"Social Media Graphics", "Website Graphics", "Digital Art"},
			ProjectTitle:            "Gym Social Media Campaign Graphics",
			Description:             "Need a series of motivational graphics for our gym's social media campaigns. Looking for energetic, inspiring designs that will motivate people to join our gym.",
			Budget:                  "1000-2500",
			Deadline:                "2024-03-01",
			Priority:                models.PriorityNormal,
			Status:                  models.StatusOnHold,
			CommunicationPreference: models.CommunicationVideoCall,
			RevisionRounds:          "5",
			FileFormat:              []string{"PNG", "JPG"},
			ColorPreferences:        "Bold, energetic colors - red, black, white",
			TargetAudience:          "Fitness enthusiasts, people looking to get in shape, athletes",
			AdditionalNotes:         "Need templates that can be easily modified for different campaigns",
			CreatedAt:               "2024-01-20T13:20:00Z",
			UpdatedAt:               "2024-01-22T10:15:00Z",
		},
		{
			ID:                      "ORD-1703876543210",
			ClientName:              "Lisa Park",
			Email:                   "lisa.park@nonprofitorg.org",
			Phone:                   "+1-555-0654",
			Company:                 "Green Earth Foundation",
			ProjectType:             "graphic-design",
			Services:                []string{"Logo Design", "Brochure Design", "Print Design"},
			ProjectTitle:            "Non-profit Environmental Campaign Materials",
			Description:             "We're launching a new environmental awareness campaign and need professional materials including updated logo, brochures, and flyers.",
			Budget:                  "500-1000",
			Deadline:                "2024-04-22",
			Priority:                models.PriorityLow,
			Status:                  models.StatusCancelled,
			CommunicationPreference: models.CommunicationEmail,
			RevisionRounds:          "3",
			FileFormat:              []string{"PDF", "PNG", "SVG"},
			ColorPreferences:        "Earth tones, green, natural colors",
			TargetAudience:          "Environmentally conscious individuals, community members, donors",
			AdditionalNotes:         "Budget is limited as we're a non-profit. Looking for impactful but cost-effective designs.",
			CreatedAt:               "2024-01-08T11:00:00Z",
			UpdatedAt:               "2024-01-25T09:45:00Z",
		},
	}
	return models.OrderRecords(orders)
}

// SeedClients returns the demo clients written on first run
func SeedClients() []models.Record {
	clients := []models.Client{
		{
			ID:            "CLIENT-1704123456789",
			Name:          "Sarah Johnson",
			Email:         "sarah.johnson@techstartup.com",
			Phone:         "+1-555-0123",
			Company:       "TechStartup Inc.",
			TotalOrders:   3,
			TotalSpent:    8500,
			LastOrderDate: "2024-01-18T14:22:00Z",
			CreatedAt:     "2024-01-01T10:00:00Z",
		},
		{
			ID:            "CLIENT-1704098765432",
			Name:          "Michael Chen",
			Email:         "m.chen@restaurantgroup.com",
			Phone:         "+1-555-0456",
			Company:       "Golden Dragon Restaurant Group",
			TotalOrders:   2,
			TotalSpent:    1500,
			LastOrderDate: "2024-01-12T09:15:00Z",
			CreatedAt:     "2024-01-05T15:30:00Z",
		},
		{
			ID:            "CLIENT-1703987654321",
			Name:          "Emily Rodriguez",
			Email:         "emily.r.author@gmail.com",
			Phone:         "+1-555-0789",
			TotalOrders:   1,
			TotalSpent:    450,
			LastOrderDate: "2024-01-20T11:30:00Z",
			CreatedAt:     "2024-01-05T16:45:00Z",
		},
	}
	return models.ClientRecords(clients)
}
