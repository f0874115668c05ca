package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func seedVisitData(t *testing.T, db *DB) {
	t.Helper()
	insertProject(t, db, 42, "record_id")
	insertField(t, db, 42, "record_id", "intake", "text", "", 1)
	insertField(t, db, 42, "symptoms", "intake", "checkbox", "", 2)
	insertField(t, db, 42, "visit_date", "visit", "text", "date_ymd", 3)
	insertField(t, db, 42, "weight", "visit", "text", "number", 4)

	insertValue(t, db, 42, "1001", "baseline", 1, "intake", 0, "record_id", "", "1001")
	insertValue(t, db, 42, "1001", "baseline", 1, "visit", 0, "visit_date", "", "2024-03-10")
	insertValue(t, db, 42, "1001", "baseline", 1, "visit", 0, "weight", "", "5")
	insertValue(t, db, 42, "1001", "followup", 2, "visit", 0, "visit_date", "", "2024-05-02")
	insertValue(t, db, 42, "1001", "followup", 2, "visit", 0, "weight", "", "7")
}

func TestRecordRepository_GetRecords(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedVisitData(t, db)

	repo := NewRecordRepository(db)
	records, err := repo.GetRecords(ctx, 42, []string{"weight", "visit_date"}, "record_id", "1001", nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "1001", records[0].ID)

	require.Len(t, records[0].Events, 2)
	require.Equal(t, "baseline", records[0].Events[0].Name)
	require.Equal(t, "5", records[0].Events[0].Values["weight"].String())
	require.Equal(t, "2024-03-10", records[0].Events[0].Values["visit_date"].String())
	require.Equal(t, "followup", records[0].Events[1].Name)
	require.Equal(t, "7", records[0].Events[1].Values["weight"].String())
}

func TestRecordRepository_NoMatchingSubject(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedVisitData(t, db)

	repo := NewRecordRepository(db)
	records, err := repo.GetRecords(ctx, 42, []string{"weight"}, "record_id", "9999", nil)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestRecordRepository_CheckboxAssembly(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedVisitData(t, db)

	insertValue(t, db, 42, "1001", "baseline", 1, "intake", 0, "symptoms", "1", "1")
	insertValue(t, db, 42, "1001", "baseline", 1, "intake", 0, "symptoms", "2", "0")
	insertValue(t, db, 42, "1001", "baseline", 1, "intake", 0, "symptoms", "3", "1")

	repo := NewRecordRepository(db)
	records, err := repo.GetRecords(ctx, 42, []string{"symptoms"}, "record_id", "1001", nil)
	require.NoError(t, err)
	require.Len(t, records, 1)

	v := records[0].Events[0].Values["symptoms"]
	require.True(t, v.IsCheckbox())
	require.Equal(t, []string{"1", "3"}, v.CheckedOptions())
}

func TestRecordRepository_RepeatInstances(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedVisitData(t, db)

	insertValue(t, db, 42, "1001", "baseline", 1, "visit", 1, "weight", "", "70")
	insertValue(t, db, 42, "1001", "baseline", 1, "visit", 2, "weight", "", "71")

	repo := NewRecordRepository(db)
	records, err := repo.GetRecords(ctx, 42, []string{"weight"}, "record_id", "1001", nil)
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.Len(t, records[0].Repeats, 2)
	require.Equal(t, 1, records[0].Repeats[0].Instance)
	require.Equal(t, "70", records[0].Repeats[0].Values["weight"].String())
	require.Equal(t, 2, records[0].Repeats[1].Instance)
	require.Equal(t, "71", records[0].Repeats[1].Values["weight"].String())
}

func TestRecordRepository_GroupFilter(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedVisitData(t, db)

	res, err := db.Exec(`INSERT INTO data_groups (project_id, group_name) VALUES (?, ?)`, int64(42), "site_a")
	require.NoError(t, err)
	groupID, err := res.LastInsertId()
	require.NoError(t, err)

	repo := NewRecordRepository(db)

	// Subject not assigned to the group: filtered out.
	records, err := repo.GetRecords(ctx, 42, []string{"weight"}, "record_id", "1001", &groupID)
	require.NoError(t, err)
	require.Empty(t, records)

	_, err = db.Exec(`INSERT INTO subject_groups (project_id, subject_id, group_id) VALUES (?, ?, ?)`, int64(42), "1001", groupID)
	require.NoError(t, err)

	records, err = repo.GetRecords(ctx, 42, []string{"weight"}, "record_id", "1001", &groupID)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestRecordRepository_EmptyFieldList(t *testing.T) {
	db := NewTestDB(t)
	seedVisitData(t, db)

	repo := NewRecordRepository(db)
	records, err := repo.GetRecords(context.Background(), 42, nil, "record_id", "1001", nil)
	require.NoError(t, err)
	require.Empty(t, records)
}
