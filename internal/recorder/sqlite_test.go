package recorder

import (
	"database/sql"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorder_RecordAnalysis(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer r.Close()

	rec := &AnalysisRecord{
		Code:        "600519",
		TradeDate:   time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
		Source:      "eastmoney",
		Close:       1690.5,
		PctChg:      math.NaN(), // missing upstream value
		MA5:         1685.2,
		MA10:        1670.1,
		MA20:        1650.8,
		VolumeRatio: 1.2,
		TotalScore:  0.8,
		Advice:      "关注",
	}
	require.NoError(t, r.RecordAnalysis(rec))

	var (
		tradeDate string
		closeV    float64
		pctChg    sql.NullFloat64
		advice    string
	)
	row := r.db.QueryRow(
		"SELECT trade_date, close, pct_chg, advice FROM analysis_history WHERE code = ?", "600519")
	require.NoError(t, row.Scan(&tradeDate, &closeV, &pctChg, &advice))

	assert.Equal(t, "2024-01-09", tradeDate)
	assert.Equal(t, 1690.5, closeV)
	assert.False(t, pctChg.Valid, "NaN must be stored as NULL")
	assert.Equal(t, "关注", advice)
}

func TestSQLiteRecorder_AppendsHistory(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer r.Close()

	day := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, r.RecordAnalysis(&AnalysisRecord{
			Code: "600519", TradeDate: day.AddDate(0, 0, i), Source: "eastmoney", Advice: "中性",
		}))
	}

	var count int
	require.NoError(t, r.db.QueryRow("SELECT COUNT(*) FROM analysis_history").Scan(&count))
	assert.Equal(t, 3, count)
}

func TestSQLiteRecorder_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordAnalysis(&AnalysisRecord{
		Code: "600519", TradeDate: time.Now(), Source: "eastmoney", Advice: "中性",
	}))
	require.NoError(t, r.Close())

	// Migration is idempotent and earlier rows survive.
	r2, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r2.Close()

	var count int
	require.NoError(t, r2.db.QueryRow("SELECT COUNT(*) FROM analysis_history").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestNoopRecorder(t *testing.T) {
	r := NewNoopRecorder()
	assert.NoError(t, r.RecordAnalysis(&AnalysisRecord{Code: "600519"}))
	assert.NoError(t, r.Close())
}
