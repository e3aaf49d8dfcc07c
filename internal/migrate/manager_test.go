package migrate

import (
	"context"
	"errors"
	"io/fs"
	"regexp"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectTables(mock sqlmock.Sqlmock) {
	mock.ExpectExec(`create table if not exists schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`create table if not exists schema_seeds`).WillReturnResult(sqlmock.NewResult(0, 0))
}

func TestUpAppliesPendingInOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"sql/0002_b.up.sql":   {Data: []byte("create table b(id int);\ninsert into b values ('x;y');\n")},
		"sql/0001_a.up.sql":   {Data: []byte("create table a(id int);")},
		"sql/0001_a.down.sql": {Data: []byte("drop table a;")},
	}

	expectTables(mock)
	mock.ExpectQuery(`select name from schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("0001_a.up.sql"))
	mock.ExpectBegin()
	mock.ExpectExec(`create table b`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`insert into b values ('x;y')`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`insert into schema_migrations`).
		WithArgs("0002_b.up.sql", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewManager(db, fsys, "sql", "seeds").Up(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpRollsBackFailedMigration(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{"sql/0001_a.up.sql": {Data: []byte("create table a(id int);")}}
	boom := errors.New("syntax error")

	expectTables(mock)
	mock.ExpectQuery(`select name from schema_migrations`).WillReturnRows(sqlmock.NewRows([]string{"name"}))
	mock.ExpectBegin()
	mock.ExpectExec(`create table a`).WillReturnError(boom)
	mock.ExpectRollback()

	err = NewManager(db, fsys, "sql", "seeds").Up(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "0001_a.up.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDownRollsBackLatest(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"sql/0001_a.up.sql":   {Data: []byte("create table a(id int);")},
		"sql/0001_a.down.sql": {Data: []byte("drop table a;")},
	}

	expectTables(mock)
	mock.ExpectQuery(`select name from schema_migrations order by applied_at`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("0001_a.up.sql"))
	mock.ExpectBegin()
	mock.ExpectExec(`drop table a`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectExec(`delete from schema_migrations`).
		WithArgs("0001_a.up.sql").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewManager(db, fsys, "sql", "seeds").Down(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDownWithoutHistory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectTables(mock)
	mock.ExpectQuery(`select name from schema_migrations`).WillReturnRows(sqlmock.NewRows([]string{"name"}))

	err = NewManager(db, fstest.MapFS{}, "sql", "seeds").Down(context.Background())
	assert.ErrorIs(t, err, ErrNothingApplied)
}

func TestDownMissingFile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectTables(mock)
	mock.ExpectQuery(`select name from schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("0009_x.up.sql"))

	err = NewManager(db, fstest.MapFS{}, "sql", "seeds").Down(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing down migration")
}

func TestSeedSkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"seeds/0001_demo.sql": {Data: []byte("insert into t values (1);")},
		"seeds/0002_more.sql": {Data: []byte("insert into t values (2);")},
		"seeds/README.md":     {Data: []byte("not sql")},
	}

	expectTables(mock)
	mock.ExpectQuery(`select name from schema_seeds`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("0001_demo.sql"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`insert into t values (2)`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`insert into schema_seeds`).
		WithArgs("0002_more.sql", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewManager(db, fsys, "sql", "seeds").Seed(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusListsHistory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectTables(mock)
	mock.ExpectQuery(`select name from schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("0001_catalog.up.sql"))

	got, err := ForCatalog(db).Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_catalog.up.sql"}, got)
}

func TestCustomTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`create table if not exists catalog_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`create table if not exists catalog_seeds`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`select name from catalog_migrations`).WillReturnRows(sqlmock.NewRows([]string{"name"}))

	_, err = NewManager(db, fstest.MapFS{}, "sql", "seeds",
		WithMigrationsTable("catalog_migrations"),
		WithSeedsTable("catalog_seeds"),
	).Status(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("a;\nb 'x;y';\n  \n")
	require.Len(t, got, 2)
	assert.Equal(t, "a;", got[0])
	assert.Equal(t, "\nb 'x;y';", got[1])
}

var tableName = regexp.MustCompile(`create table if not exists (\w+)`)

func TestCatalogMigrationsAreReversible(t *testing.T) {
	ups, err := fs.Glob(Catalog, "sql/*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, up := range ups {
		upSQL, err := fs.ReadFile(Catalog, up)
		require.NoError(t, err)
		downSQL, err := fs.ReadFile(Catalog, strings.TrimSuffix(up, ".up.sql")+".down.sql")
		require.NoError(t, err, "missing down for %s", up)

		for _, m := range tableName.FindAllStringSubmatch(string(upSQL), -1) {
			assert.Contains(t, string(downSQL), "drop table if exists "+m[1]+";", "%s not dropped", m[1])
		}
	}
}

func TestCatalogSeedsCoverEveryTable(t *testing.T) {
	upSQL, err := fs.ReadFile(Catalog, "sql/0001_catalog.up.sql")
	require.NoError(t, err)
	seeds, err := fs.ReadFile(Catalog, "seeds/0001_demo.sql")
	require.NoError(t, err)

	for _, m := range tableName.FindAllStringSubmatch(string(upSQL), -1) {
		assert.Contains(t, string(seeds), "insert into "+m[1]+"(", "%s has no seed rows", m[1])
	}
	assert.Equal(t, 1, strings.Count(string(seeds), "'Critical', '2024-11-07'"))
}
