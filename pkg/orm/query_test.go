package orm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type widget struct {
	gorm.Model
	Name  string
	Stage string
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:orm_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widget{}))
	return db
}

func TestCreateFindFirst(t *testing.T) {
	db := testDB(t)

	require.NoError(t, New(db).Create(&widget{Name: "a", Stage: "g1"}))
	require.NoError(t, New(db).Create(&widget{Name: "b", Stage: "g2"}))

	var got widget
	err := New(db).Model(&widget{}).Where("name = ?", "b").First(&got)
	require.NoError(t, err)
	require.Equal(t, "g2", got.Stage)

	var all []widget
	require.NoError(t, New(db).Model(&widget{}).Find(&all))
	require.Len(t, all, 2)
}

func TestUpdateColumnsReturnsAffected(t *testing.T) {
	db := testDB(t)

	w := widget{Name: "x", Stage: "pending"}
	require.NoError(t, New(db).Create(&w))

	affected, err := New(db).Model(&widget{}).
		Where("id = ? AND stage = ?", w.ID, "pending").
		UpdateColumns(map[string]interface{}{"stage": "done"})
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	// Second conditional update no longer matches.
	affected, err = New(db).Model(&widget{}).
		Where("id = ? AND stage = ?", w.ID, "pending").
		UpdateColumns(map[string]interface{}{"stage": "done"})
	require.NoError(t, err)
	require.EqualValues(t, 0, affected)
}

func TestGetWithPagination(t *testing.T) {
	db := testDB(t)

	for i := 0; i < 25; i++ {
		require.NoError(t, New(db).Create(&widget{Name: fmt.Sprintf("w%02d", i)}))
	}

	var page []widget
	p, err := New(db).Model(&widget{}).Order("created_at asc").GetWithPagination(&page, 2, 10)
	require.NoError(t, err)

	require.EqualValues(t, 25, p.Total)
	require.Equal(t, 2, p.Page)
	require.Equal(t, 3, p.TotalPages)
	require.Len(t, page, 10)
}

func TestGetWithPaginationClampsInput(t *testing.T) {
	db := testDB(t)
	require.NoError(t, New(db).Create(&widget{Name: "only"}))

	var page []widget
	p, err := New(db).Model(&widget{}).GetWithPagination(&page, -3, 0)
	require.NoError(t, err)
	require.Equal(t, 1, p.Page)
	require.Equal(t, DefaultLimit, p.Limit)
	require.Len(t, page, 1)
}

func TestGetWithPaginationLastPartialPage(t *testing.T) {
	db := testDB(t)
	for i := 0; i < 7; i++ {
		require.NoError(t, New(db).Create(&widget{Name: fmt.Sprintf("w%d", i)}))
	}

	var page []widget
	p, err := New(db).Model(&widget{}).Order("created_at asc").GetWithPagination(&page, 3, 3)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, 3, p.TotalPages)
	require.EqualValues(t, 7, p.Total)
}
