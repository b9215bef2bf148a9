package database

import (
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DBI{User: "u", Password: "p", Endpoint: "db", Port: 3306, Database: "trip"}.DSN()
	require.Equal(t, "u:p@tcp(db:3306)/trip?parseTime=true&charset=utf8mb4", dsn)

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	require.True(t, parsed.ParseTime)
	require.Equal(t, "db:3306", parsed.Addr)
}

func TestMigrationDSNAllowsMultiStatements(t *testing.T) {
	dsn := DBI{User: "u", Password: "p", Endpoint: "db", Port: 3306, Database: "trip"}.MigrationDSN()

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	require.True(t, parsed.MultiStatements)
	require.True(t, parsed.ParseTime)
	require.Equal(t, "trip", parsed.DBName)
}

func TestMySQLErrorHelpers(t *testing.T) {
	dup := fmt.Errorf("wrapped: %w", &mysql.MySQLError{Number: ErrMySQLDuplicateEntry, Message: "Duplicate entry"})
	require.True(t, IsDuplicate(dup))

	require.False(t, IsDuplicate(&mysql.MySQLError{Number: 1451}))
	require.False(t, IsDuplicate(fmt.Errorf("plain")))
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	require.Equal(t, "%제주%", ContainsPattern("제주"))
	require.Equal(t, `%\%%`, ContainsPattern("%"))
	require.Equal(t, `%a\_b\\c%`, ContainsPattern(`a_b\c`))
}
