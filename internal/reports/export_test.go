package reports

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igp-sales-backend/internal/models"
	"igp-sales-backend/internal/store"
)

func sampleReport() *store.Report {
	return &store.Report{
		StartDate:         "2026-03-01",
		EndDate:           "2026-04-01",
		TotalTransactions: 3,
		TotalItemsSold:    6,
		TotalRevenue:      650,
		Transactions: []models.Transaction{
			{BuyerName: "Reyes, Ana", ProgramCourse: "BSIT 3A", ProductName: "Shirt", Size: "M", Quantity: 2, Amount: 200, ORNumber: "OR-1", Date: "2026-03-02"},
			{BuyerName: "Santos, Ben", ProgramCourse: "BSED 2B", ProductName: "Shirt", Size: "S", Quantity: 1, Amount: 100, ORNumber: "OR-2", Date: "2026-03-05"},
			{BuyerName: "Cruz, Carla", ProgramCourse: "BSBA 1A", ProductName: "Lanyard", Size: "One Size", Quantity: 3, Amount: 350, ORNumber: "OR-3", Date: "2026-03-09"},
		},
	}
}

func TestSortSizes(t *testing.T) {
	sizes := []string{"One Size", "XL", "M", "Kids", "XS"}
	sortSizes(sizes)
	assert.Equal(t, []string{"XS", "M", "XL", "Kids", "One Size"}, sizes)
}

func TestWriteCSVLayout(t *testing.T) {
	batches := map[string]string{"Shirt": "1st Batch"}
	batchFor := func(product string) string { return batches[product] }

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport(), batchFor))

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 9)

	assert.Equal(t, "Shirt (1st Batch)", lines[0])
	assert.Equal(t, "NAME,COURSE,OR #,S,M,DATE,AMOUNT", lines[1])
	assert.Equal(t, "\"Reyes, Ana\",BSIT 3A,OR-1,,2,2026-03-02,200.00", lines[2])
	assert.Equal(t, "\"Santos, Ben\",BSED 2B,OR-2,1,,2026-03-05,100.00", lines[3])
	assert.Equal(t, "", lines[4])
	assert.Equal(t, "Lanyard", lines[5])
	assert.Equal(t, "NAME,COURSE,OR #,One Size,DATE,AMOUNT", lines[6])
	assert.Equal(t, "\"Cruz, Carla\",BSBA 1A,OR-3,3,2026-03-09,350.00", lines[7])
	assert.Equal(t, "", lines[8])
}

func TestWriteCSVEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	rep := &store.Report{StartDate: "2026-03-01", EndDate: "2026-04-01"}
	require.NoError(t, WriteCSV(&buf, rep, func(string) string { return "" }))
	assert.Empty(t, buf.String())
}

func TestBuildWorkbook(t *testing.T) {
	f, err := BuildWorkbook(sampleReport(), func(string) string { return "" })
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)

	get := func(cell string) string {
		t.Helper()
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Total Transactions", get("A1"))
	assert.Equal(t, "3", get("B1"))
	assert.Equal(t, "Total Revenue", get("A3"))
	assert.Equal(t, "650.00", get("B3"))

	assert.Equal(t, "Shirt", get("A5"))
	assert.Equal(t, "NAME", get("A6"))
	assert.Equal(t, "S", get("D6"))
	assert.Equal(t, "M", get("E6"))
	assert.Equal(t, "Reyes, Ana", get("A7"))
	assert.Equal(t, "2", get("E7"))
	assert.Equal(t, "Lanyard", get("A10"))
}
