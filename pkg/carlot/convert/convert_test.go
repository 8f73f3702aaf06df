package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekruzvatanshoev/carlot/pkg/carlot/logging"
)

const sampleCSV = `Make,Model,Year,Engine Fuel Type,Engine HP,Transmission Type,Driven_Wheels,Number of Doors,Market Category,Vehicle Size,Vehicle Style,highway MPG,city mpg,Popularity,MSRP
BMW,1 Series M,2011,premium unleaded (required),335,MANUAL,rear wheel drive,2,"Factory Tuner,Luxury,High-Performance",Compact,Coupe,26,19,3916,46135
Audi,100,1992,regular unleaded,172,MANUAL,front wheel drive,4,Luxury,Midsize,Sedan,24,17,3105,2000
FIAT,124 Spider,2017,premium unleaded (recommended),160,AUTOMATIC,rear wheel drive,2,,Compact,Convertible,35,26,819,n/a
`

func TestRead(t *testing.T) {
	records, err := Read(strings.NewReader(sampleCSV), DefaultLimit, logging.Discard())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Record{
		Make:             "BMW",
		Model:            "1 Series M",
		ReleaseDate:      "2011",
		TransmissionType: "MANUAL",
		Size:             "Compact",
		Style:            "Coupe",
		Price:            46135,
	}, records[0])
	assert.Equal(t, "Sedan", records[1].Style)
	assert.Equal(t, float64(0), records[2].Price, "unparsable MSRP is written as 0")
}

func TestReadHonoursLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("Make,Model,Year,Transmission Type,Vehicle Size,Vehicle Style,MSRP\n")
	for i := 0; i < 250; i++ {
		fmt.Fprintf(&b, "Ford,Model %d,2015,AUTOMATIC,Midsize,Sedan,%d\n", i, 20000+i)
	}

	records, err := Read(strings.NewReader(b.String()), DefaultLimit, logging.Discard())
	require.NoError(t, err)
	require.Len(t, records, DefaultLimit)
	assert.Equal(t, "Model 0", records[0].Model)
	assert.Equal(t, "Model 199", records[DefaultLimit-1].Model)

	all, err := Read(strings.NewReader(b.String()), 0, logging.Discard())
	require.NoError(t, err)
	assert.Len(t, all, 250)
}

func TestReadMissingColumns(t *testing.T) {
	_, err := Read(strings.NewReader("Make,Model\nBMW,M3\n"), DefaultLimit, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Year")
	assert.Contains(t, err.Error(), "MSRP")

	_, err = Read(strings.NewReader(""), DefaultLimit, logging.Discard())
	require.Error(t, err)
}

func TestWriteShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []Record{{Make: "BMW", Model: "M3", ReleaseDate: "2011", Price: 46135}}))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.ElementsMatch(t,
		[]string{"make", "model", "release_date", "transmission_type", "size", "style", "price"},
		keys(out[0]))
	assert.Equal(t, float64(2011), out[0]["release_date"])

	buf.Reset()
	require.NoError(t, Write(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFileOverwritesOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.csv")
	output := filepath.Join(dir, "cars.json")
	require.NoError(t, os.WriteFile(input, []byte(sampleCSV), 0o600))
	require.NoError(t, os.WriteFile(output, []byte(`[{"make":"stale"},{"make":"stale"},{"make":"stale"},{"make":"stale"}]`), 0o600))

	n, err := File(input, output, 2, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := Load(output)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "BMW", records[0].Make)
	assert.Equal(t, "Audi", records[1].Make)
	assert.Equal(t, "Audi", records[1].Car().Make)
}

func TestFileMissingInput(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "nope.csv"), filepath.Join(t.TempDir(), "out.json"), 1, logging.Discard())
	assert.Error(t, err)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
