package app

// ExampleQueries returns canned questions grouped by category, used by the
// REPL /examples command and the web sidebar.
func (s *appService) ExampleQueries() []ExampleCategory {
	return []ExampleCategory{
		{
			Category: "Sales",
			Queries: []string{
				"What were total sales for Lays in January 2024?",
				"Show me sales for Neo in 2024",
				"Total sales in February 2025",
			},
		},
		{
			Category: "Active Stores",
			Queries: []string{
				"How many active stores did Delphy have in 2024?",
				"Active stores for Coke in January 2024",
				"Show me store count for Titz",
			},
		},
		{
			Category: "Comparisons",
			Queries: []string{
				"Compare sales between 2024 and 2025",
				"Year over year sales growth",
				"Show me YoY comparison for Solerone",
			},
		},
		{
			Category: "Rankings",
			Queries: []string{
				"Show me top 5 brands by sales",
				"Top 3 brands by active stores",
				"Which brands have the highest sales?",
			},
		},
	}
}
