package engine

// Curated demonstration queries. They assume the customers/orders/products
// schema shipped with the project README.

// SamplesFor returns the catalog for an engine type without connecting.
func SamplesFor(typ EngineType) []SampleQuery {
	switch typ {
	case MySQL:
		return mysqlSamples
	case SQLite:
		return sqliteSamples
	default:
		return postgresSamples
	}
}

var postgresSamples = []SampleQuery{
	{
		Name:        "Simple Select",
		Description: "Basic table scan with filtering",
		Query:       "SELECT * FROM customers WHERE country = 'USA';",
		Category:    CategoryBasicSelect,
	},
	{
		Name:        "Inner Join",
		Description: "Join two tables with performance considerations",
		Query:       "SELECT c.name, o.total FROM customers c JOIN orders o ON c.id = o.customer_id WHERE o.total > 100;",
		Category:    CategoryJoin,
	},
	{
		Name:        "Complex Join",
		Description: "Multi-table join with aggregation",
		Query:       "SELECT c.name, COUNT(o.id) as order_count, SUM(oi.quantity * p.price) as total_spent FROM customers c LEFT JOIN orders o ON c.id = o.customer_id LEFT JOIN order_items oi ON o.id = oi.order_id LEFT JOIN products p ON oi.product_id = p.id GROUP BY c.id, c.name HAVING SUM(oi.quantity * p.price) > 500 ORDER BY total_spent DESC;",
		Category:    CategoryJoin,
	},
	{
		Name:        "Aggregation Query",
		Description: "Grouping and aggregation with sorting",
		Query:       "SELECT category, COUNT(*) as product_count, AVG(price) as avg_price FROM products GROUP BY category ORDER BY avg_price DESC;",
		Category:    CategoryAggregation,
	},
	{
		Name:        "Subquery Example",
		Description: "Correlated subquery performance analysis",
		Query:       "SELECT * FROM products p WHERE p.price > (SELECT AVG(price) FROM products p2 WHERE p2.category = p.category);",
		Category:    CategorySubquery,
	},
	{
		Name:        "Window Function",
		Description: "Window function with partitioning",
		Query:       "SELECT name, price, category, ROW_NUMBER() OVER (PARTITION BY category ORDER BY price DESC) as price_rank FROM products;",
		Category:    CategoryWindow,
	},
	{
		Name:        "Performance Test",
		Description: "Large table scan for performance testing",
		Query:       "SELECT c.*, COUNT(o.id) FROM customers c LEFT JOIN orders o ON c.id = o.customer_id GROUP BY c.id;",
		Category:    CategoryPerformance,
	},
}

var mysqlSamples = []SampleQuery{
	{
		Name:        "Simple Select",
		Description: "Basic MySQL table scan",
		Query:       "SELECT * FROM customers WHERE country = 'USA';",
		Category:    CategoryBasicSelect,
	},
	{
		Name:        "Inner Join",
		Description: "MySQL join with index usage",
		Query:       "SELECT c.name, o.total FROM customers c INNER JOIN orders o ON c.id = o.customer_id WHERE o.total > 100;",
		Category:    CategoryJoin,
	},
	{
		Name:        "Aggregation with Index",
		Description: "MySQL aggregation query",
		Query:       "SELECT category, COUNT(*) as count, AVG(price) as avg_price FROM products GROUP BY category ORDER BY avg_price DESC;",
		Category:    CategoryAggregation,
	},
	{
		Name:        "Subquery with EXISTS",
		Description: "MySQL subquery optimization",
		Query:       "SELECT * FROM customers c WHERE EXISTS (SELECT 1 FROM orders o WHERE o.customer_id = c.id AND o.total > 1000);",
		Category:    CategorySubquery,
	},
}

var sqliteSamples = []SampleQuery{
	{
		Name:        "Simple Select",
		Description: "Basic SQLite table scan",
		Query:       "SELECT * FROM customers WHERE country = 'USA';",
		Category:    CategoryBasicSelect,
	},
	{
		Name:        "Inner Join",
		Description: "SQLite join without index",
		Query:       "SELECT c.name, o.total FROM customers c INNER JOIN orders o ON c.id = o.customer_id WHERE o.total > 100;",
		Category:    CategoryJoin,
	},
	{
		Name:        "Aggregation Query",
		Description: "SQLite aggregation with grouping",
		Query:       "SELECT category, COUNT(*) as count, AVG(price) as avg_price FROM products GROUP BY category ORDER BY avg_price DESC;",
		Category:    CategoryAggregation,
	},
	{
		Name:        "Common Table Expression",
		Description: "SQLite CTE example",
		Query:       "WITH customer_totals AS (SELECT customer_id, SUM(total) as total_spent FROM orders GROUP BY customer_id) SELECT c.name, ct.total_spent FROM customers c JOIN customer_totals ct ON c.id = ct.customer_id WHERE ct.total_spent > 500;",
		Category:    CategoryCTE,
	},
	{
		Name:        "Subquery Performance",
		Description: "SQLite subquery vs join comparison",
		Query:       "SELECT * FROM products p WHERE p.category IN (SELECT DISTINCT category FROM products WHERE price > 100);",
		Category:    CategorySubquery,
	},
}
