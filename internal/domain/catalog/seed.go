package catalog

// SeedProducts returns the fixed initial catalog used on first run.
func SeedProducts() []Product {
	return []Product{
		{
			ID:          "1",
			Name:        "Advanced Programming Book",
			Price:       85,
			Image:       "https://images.pexels.com/photos/159711/books-bookstore-book-reading-159711.jpeg?auto=compress&cs=tinysrgb&w=500",
			Description: "A comprehensive book on advanced programming covering current techniques and practices",
			Category:    "Books",
			InStock:     true,
		},
		{
			ID:          "2",
			Name:        "Professional Laptop",
			Price:       2500,
			Image:       "https://images.pexels.com/photos/18105/pexels-photo.jpg?auto=compress&cs=tinysrgb&w=500",
			Description: "High-performance laptop suited for developers and designers",
			Category:    "Technology",
			InStock:     true,
		},
		{
			ID:          "3",
			Name:        "Wireless Headphones",
			Price:       350,
			Image:       "https://images.pexels.com/photos/3394650/pexels-photo-3394650.jpeg?auto=compress&cs=tinysrgb&w=500",
			Description: "High-quality headphones with noise cancellation",
			Category:    "Electronics",
			InStock:     true,
		},
		{
			ID:          "4",
			Name:        "Digital Camera",
			Price:       1200,
			Image:       "https://images.pexels.com/photos/90946/pexels-photo-90946.jpeg?auto=compress&cs=tinysrgb&w=500",
			Description: "Professional camera for capturing the finest moments",
			Category:    "Photography",
			InStock:     true,
		},
		{
			ID:          "5",
			Name:        "Smart Watch",
			Price:       450,
			Image:       "https://images.pexels.com/photos/437037/pexels-photo-437037.jpeg?auto=compress&cs=tinysrgb&w=500",
			Description: "Smart watch with health tracking and modern features",
			Category:    "Electronics",
			InStock:     true,
		},
		{
			ID:          "6",
			Name:        "Leather Bag",
			Price:       180,
			Image:       "https://images.pexels.com/photos/2905238/pexels-photo-2905238.jpeg?auto=compress&cs=tinysrgb&w=500",
			Description: "Elegant bag made of high-quality genuine leather",
			Category:    "Accessories",
			InStock:     true,
		},
	}
}
