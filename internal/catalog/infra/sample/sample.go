// Package sample holds the built-in catalog served when the catalog upstream
// is unreachable or not configured.
package sample

import "github.com/dwikikusuma/bookverse/internal/catalog/domain"

var books = []domain.Item{
	{
		ID: "bk-001", Title: "The Midnight Library", Author: "Matt Haig", Genre: "Fiction",
		Price:       domain.USD(1899),
		Description: "A dazzling novel about all the choices that go into a life well lived.",
		ImageURL:    "https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=400",
	},
	{
		ID: "bk-002", Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction",
		Price:       domain.USD(2250),
		Description: "Epic science fiction saga on the desert planet Arrakis.",
		ImageURL:    "https://images.unsplash.com/photo-1532012197267-da84d127e765?w=400",
	},
	{
		ID: "bk-003", Title: "Atomic Habits", Author: "James Clear", Genre: "Self-Help",
		Price:       domain.USD(1699),
		Description: "Tiny changes, remarkable results: an easy and proven way to build good habits.",
		ImageURL:    "https://images.unsplash.com/photo-1589829085413-56de8ae18c73?w=400",
	},
	{
		ID: "bk-004", Title: "Sapiens", Author: "Yuval Noah Harari", Genre: "History",
		Price:       domain.USD(1999),
		Description: "A brief history of humankind: where we came from and how we got here.",
		ImageURL:    "https://images.unsplash.com/photo-1481627834876-b7833e8f5570?w=400",
	},
	{
		ID: "bk-005", Title: "Project Hail Mary", Author: "Andy Weir", Genre: "Science Fiction",
		Price:       domain.USD(2000),
		Description: "A lone astronaut must save the earth in this thrilling sci-fi adventure.",
		ImageURL:    "https://images.unsplash.com/photo-1512820790803-83ca734da794?w=400",
	},
	{
		ID: "bk-006", Title: "Klara and the Sun", Author: "Kazuo Ishiguro", Genre: "Literary Fiction",
		Price:       domain.USD(2150),
		Description: "A look at our changing world through the eyes of an artificial friend.",
		ImageURL:    "https://images.unsplash.com/photo-1491841573334-9bde9f1709a0?w=400",
	},
	{
		ID: "bk-007", Title: "The Psychology of Money", Author: "Morgan Housel", Genre: "Finance",
		Price:       domain.USD(1799),
		Description: "Timeless lessons on wealth, greed, and happiness.",
		ImageURL:    "https://images.unsplash.com/photo-1544716278-ca5e3f3abd8c?w=400",
	},
	{
		ID: "bk-008", Title: "Educated", Author: "Tara Westover", Genre: "Memoir",
		Price:       domain.USD(1899),
		Description: "A memoir about a woman who leaves her survivalist family and goes on to earn a PhD.",
		ImageURL:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400",
	},
	{
		ID: "bk-009", Title: "1984", Author: "George Orwell", Genre: "Dystopian",
		Price:       domain.USD(1299),
		Description: "A dystopian novel about totalitarianism and surveillance.",
		ImageURL:    "https://images.unsplash.com/photo-1530538987395-7f02970410e0?w=400",
	},
	{
		ID: "bk-010", Title: "The Alchemist", Author: "Paulo Coelho", Genre: "Fiction",
		Price:       domain.USD(1499),
		Description: "A magical story about dreams, omens, and finding your personal legend.",
		ImageURL:    "https://images.unsplash.com/photo-1543002588-bfa74002ed7e?w=400",
	},
}

// Books returns a fresh copy of the built-in catalog.
func Books() []domain.Item {
	out := make([]domain.Item, len(books))
	copy(out, books)
	return out
}
