package sqlite

import (
	"fmt"
	"strings"
)

// StoreOptions configures how the saved-filter table is created.
type StoreOptions struct {
	TableName    string // Name of the table holding saved filters.
	IfNotExists  bool   // Prevent errors if the table already exists.
	DropIfExists bool   // Drop and recreate the table on startup.
}

// DefaultStoreOptions returns a set of sensible default options for the
// SQLite filter store. These defaults keep existing data.
func DefaultStoreOptions() *StoreOptions {
	return &StoreOptions{
		TableName:   "saved_filters",
		IfNotExists: true,
	}
}

// quoteIdentifier safely quotes an identifier, such as a table or column name,
// to prevent SQL injection and to handle names that might be keywords or contain
// special characters.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// createTableSQL returns the statements that create the saved-filter table
// and its table-name index.
func createTableSQL(options *StoreOptions) []string {
	table := quoteIdentifier(options.TableName)
	index := quoteIdentifier("idx_" + options.TableName + "_table_name")

	var statements []string
	if options.DropIfExists {
		statements = append(statements, fmt.Sprintf("DROP TABLE IF EXISTS %s;", table))
	}

	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	if options.IfNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(table + " (\n")
	sb.WriteString(strings.Join([]string{
		`  "id" TEXT NOT NULL PRIMARY KEY`,
		`  "name" TEXT NOT NULL UNIQUE`,
		`  "table_name" TEXT NOT NULL`,
		`  "query" TEXT NOT NULL`,
		`  "created_at" INTEGER NOT NULL`,
		`  "updated_at" INTEGER NOT NULL`,
	}, ",\n"))
	sb.WriteString("\n);")
	statements = append(statements, sb.String())

	statements = append(statements, fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON %s (\"table_name\");", index, table))
	return statements
}
