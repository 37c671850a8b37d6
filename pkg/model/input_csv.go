package model

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// CsvSeparator separates the columns of catalog files, commas are reserved for equipment lists
const CsvSeparator = ';'

// Files read by InputFromCsv, unavailability.csv is optional
const (
	TeachersFile       = "teachers.csv"
	ProgramsFile       = "programs.csv"
	GroupsFile         = "groups.csv"
	RoomsFile          = "rooms.csv"
	CoursesFile        = "courses.csv"
	UnavailabilityFile = "unavailability.csv"
)

func InputFromCsv(directory string) (*Catalog, error) {
	var rawInput RawCatalog

	if err := loadCsv(filepath.Join(directory, TeachersFile), &rawInput.Teachers); err != nil {
		return nil, err
	}
	if err := loadCsv(filepath.Join(directory, ProgramsFile), &rawInput.Programs); err != nil {
		return nil, err
	}
	if err := loadCsv(filepath.Join(directory, GroupsFile), &rawInput.Groups); err != nil {
		return nil, err
	}
	if err := loadCsv(filepath.Join(directory, RoomsFile), &rawInput.Rooms); err != nil {
		return nil, err
	}
	if err := loadCsv(filepath.Join(directory, CoursesFile), &rawInput.Courses); err != nil {
		return nil, err
	}
	if err := loadCsv(filepath.Join(directory, UnavailabilityFile), &rawInput.Unavailabilities); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return ProcessRawInput(rawInput)
}

func loadCsv[T any](path string, out *[]T) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := ReadCsv(file, out); err != nil {
		return fmt.Errorf("cannot parse %v: %w", path, err)
	}
	return nil
}

// ReadCsv decodes ';' separated rows with a header line into out
func ReadCsv[T any](in io.Reader, out *[]T) error {
	reader := csv.NewReader(in)
	reader.Comma = CsvSeparator
	reader.TrimLeadingSpace = true
	return gocsv.UnmarshalCSV(reader, out)
}
