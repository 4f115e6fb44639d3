package csvfile

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/delivery-event-generator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = `province_name,district_name,township,road_name,full_address,latitude,longitude
서울특별시,강남구,역삼동,테헤란로,서울특별시 강남구 테헤란로 152,37.5001,127.0364
부산광역시,해운대구,우동,해운대로,"부산광역시 해운대구 해운대로 264, 1층",35.1631,129.1636
대전광역시,유성구,봉명동,대학로,대전광역시 유성구 대학로 99,36.3622,127.3561
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "addr_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestOpen_KeysFollowRowOrder(t *testing.T) {
	src, err := Open(writeFile(t, testCSV))
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(testCSV)).ReadAll()
	require.NoError(t, err)
	header, data := rows[0], rows[1:]

	size, err := src.Size(context.Background())
	require.NoError(t, err)
	require.Equal(t, len(data), size)

	for i := 1; i <= size; i++ {
		rec, err := src.Get(context.Background(), domain.AddressKey(i))
		require.NoError(t, err)
		for j, name := range header {
			assert.Equal(t, data[i-1][j], rec[name], "row %d field %s", i, name)
		}
	}
}

func TestOpen_QuotedField(t *testing.T) {
	src, err := Open(writeFile(t, testCSV))
	require.NoError(t, err)

	rec, err := src.Get(context.Background(), "addr:2")
	require.NoError(t, err)
	assert.Equal(t, "부산광역시 해운대구 해운대로 264, 1층", rec[domain.FieldFullAddress])
}

func TestGet_MissingKey(t *testing.T) {
	src, err := Open(writeFile(t, testCSV))
	require.NoError(t, err)

	for _, key := range []string{"addr:0", "addr:4", "user:1", ""} {
		rec, err := src.Get(context.Background(), key)
		require.ErrorIs(t, err, domain.ErrNotFound, key)
		assert.Nil(t, rec)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open address file")
}

func TestOpen_MalformedCSV(t *testing.T) {
	_, err := Open(writeFile(t, "province_name,district_name\n\"unterminated,quote\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read row 1")
}

func TestParse_StripsBOMAndShortRows(t *testing.T) {
	records, err := Parse(strings.NewReader("\ufeffprovince_name, district_name ,latitude\n세종특별자치시,세종시\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records["addr:1"]
	assert.Equal(t, "세종특별자치시", rec[domain.FieldProvinceName])
	assert.Equal(t, "세종시", rec[domain.FieldDistrictName])
	assert.NotContains(t, rec, domain.FieldLatitude)
}

func TestParse_Empty(t *testing.T) {
	records, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecords_FileOrder(t *testing.T) {
	src, err := Open(writeFile(t, testCSV))
	require.NoError(t, err)

	recs := src.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, "강남구", recs[0][domain.FieldDistrictName])
	assert.Equal(t, "해운대구", recs[1][domain.FieldDistrictName])
	assert.Equal(t, "유성구", recs[2][domain.FieldDistrictName])
}
