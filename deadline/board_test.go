package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/case-tracker-api/casefile"
)

func arrested(y int, m time.Month, d int) []casefile.Accused {
	return []casefile.Accused{{Name: "A", Status: "Arrested", ArrestDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}}
}

func TestBoardOrdersByUrgency(t *testing.T) {
	clk := At(time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC), time.UTC)
	cases := []casefile.Case{
		{ID: "far", CaseNo: "1", DeadlineDays: 90, Accused: arrested(2024, 2, 1)},
		{ID: "overdue", CaseNo: "2", DeadlineDays: 60, Accused: arrested(2023, 12, 1)},
		{ID: "soon", CaseNo: "3", DeadlineDays: 60, Accused: arrested(2024, 1, 1)},
		{ID: "disposed", CaseNo: "4", CaseStatus: "Disposed", DeadlineDays: 60, Accused: arrested(2023, 12, 1)},
		{ID: "submitted", CaseNo: "5", DeadlineDays: 60, FinalChargesheetSubmitted: true, Accused: arrested(2023, 12, 1)},
		{ID: "nobody", CaseNo: "6", DeadlineDays: 60},
	}

	board := Board(clk, cases)
	require.Len(t, board, 3)
	assert.Equal(t, "overdue", board[0].CaseID)
	assert.True(t, board[0].IsOverdue)
	assert.Equal(t, "soon", board[1].CaseID)
	assert.Equal(t, 10, board[1].DaysRemaining)
	assert.Equal(t, "far", board[2].CaseID)

	due := Due(board, DigestWindow)
	require.Len(t, due, 2)
	assert.Equal(t, "overdue", due[0].CaseID)
	assert.Equal(t, "soon", due[1].CaseID)
}
