// Package convert turns the public car dataset CSV into the JSON array the
// seed command loads. It copies values as they are and does not validate
// them, so its output can contain records the API would reject.
package convert

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/nekruzvatanshoev/carlot/pkg/carlot/dal"
)

const (
	DefaultInput  = "./data/data.csv"
	DefaultOutput = "./data/cars.json"
	DefaultLimit  = 200
)

// CSV header names of the source dataset.
const (
	columnMake         = "Make"
	columnModel        = "Model"
	columnYear         = "Year"
	columnTransmission = "Transmission Type"
	columnSize         = "Vehicle Size"
	columnStyle        = "Vehicle Style"
	columnMSRP         = "MSRP"
)

var requiredColumns = []string{
	columnMake, columnModel, columnYear, columnTransmission, columnSize, columnStyle, columnMSRP,
}

// Record is one converted row.
type Record struct {
	Make             string          `json:"make"`
	Model            string          `json:"model"`
	ReleaseDate      dal.ReleaseDate `json:"release_date"`
	TransmissionType string          `json:"transmission_type"`
	Size             string          `json:"size"`
	Style            string          `json:"style"`
	Price            float64         `json:"price"`
}

// Car returns the record as an unsaved car.
func (r Record) Car() dal.Car {
	return dal.Car{
		Make:             r.Make,
		Model:            r.Model,
		Price:            r.Price,
		ReleaseDate:      r.ReleaseDate,
		Size:             r.Size,
		Style:            r.Style,
		TransmissionType: r.TransmissionType,
	}
}

// Read parses at most limit data rows from a CSV with a header row. A limit
// of zero or less reads every row.
func Read(r io.Reader, limit int, logger *slog.Logger) ([]Record, error) {
	if logger == nil {
		logger = slog.Default()
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv is missing columns: %s", strings.Join(missing, ", "))
	}

	records := make([]Record, 0)
	for line := 2; limit <= 0 || len(records) < limit; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		field := func(name string) string {
			i := columns[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := Record{
			Make:             field(columnMake),
			Model:            field(columnModel),
			ReleaseDate:      dal.ReleaseDate(field(columnYear)),
			TransmissionType: field(columnTransmission),
			Size:             field(columnSize),
			Style:            field(columnStyle),
		}
		if msrp := field(columnMSRP); msrp != "" {
			price, err := strconv.ParseFloat(msrp, 64)
			if err != nil {
				logger.Warn("unparsable MSRP, writing 0", "line", line, "value", msrp)
			} else {
				rec.Price = price
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Write encodes records as a JSON array.
func Write(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	return json.NewEncoder(w).Encode(records)
}

// File converts the CSV at input into a JSON array at output, replacing any
// previous content, and returns the number of records written.
func File(input, output string, limit int, logger *slog.Logger) (int, error) {
	in, err := os.Open(input)
	if err != nil {
		return 0, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	records, err := Read(in, limit, logger)
	if err != nil {
		return 0, err
	}

	out, err := os.Create(output)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}
	if err := Write(out, records); err != nil {
		out.Close()
		return 0, fmt.Errorf("write output: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("close output: %w", err)
	}
	return len(records), nil
}

// Load reads a JSON array written by File.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var records []Record
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}
