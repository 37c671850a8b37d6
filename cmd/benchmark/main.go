package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/roomscheduler/pkg/model"
	"github.com/limaJavier/roomscheduler/pkg/schedule"
	"github.com/samber/lo"
)

const MB float32 = 1024 * 1024

type TestMetadata struct {
	Name     string
	Catalog  *model.Catalog
	Programs int
	Groups   int
	Teachers int
	Rooms    int
	Courses  int
}

type TimetablerMetadata struct {
	Strategy schedule.Strategy
	TieBreak schedule.TieBreak
}

type BenchmarkResult struct {
	Strategy    string  `csv:"strategy"`
	TieBreak    string  `csv:"tie_break"`
	Test        string  `csv:"test"`
	Programs    int     `csv:"programs"`
	Groups      int     `csv:"groups"`
	Teachers    int     `csv:"teachers"`
	Rooms       int     `csv:"rooms"`
	Courses     int     `csv:"courses"`
	Duration    int64   `csv:"duration_us"`
	Memory      float32 `csv:"memory_mb"`
	Placed      int     `csv:"placed"`
	Unscheduled int     `csv:"unscheduled"`
	Violations  int     `csv:"violations"`
}

// Synthetic catalog sizes, expressed in programs
var syntheticSizes = map[string]int{
	"small":  2,
	"medium": 8,
	"large":  24,
}

func main() {
	directoryPtr := flag.String("dir", "", "Directory whose entries (JSON files or CSV directories) are benchmarked; if empty, synthetic catalogs are generated")
	outFilePtr := flag.String("out", "benchmark_results.csv", "Path to the CSV file where the results will be written")
	seedPtr := flag.Int64("seed", 1, "Seed of the synthetic catalogs")
	flag.Parse()

	var tests []TestMetadata
	if *directoryPtr != "" {
		tests = getTests(*directoryPtr)
	} else {
		tests = getSyntheticTests(*seedPtr)
	}
	timetablers := getTimetablers()
	results := make([]BenchmarkResult, 0, len(tests)*len(timetablers))

	for _, test := range tests {
		for _, timetabler := range timetablers {
			fmt.Printf("Benchmarking test \"%v\" with strategy \"%v\" and tie-break \"%v\"\n", test.Name, timetabler.Strategy, timetabler.TieBreak)
			results = append(results, measure(timetabler, test, model.DefaultGrid()))
		}
	}

	toCsv(results, *outFilePtr)
}

func getTests(directory string) []TestMetadata {
	entries, err := os.ReadDir(directory)
	if err != nil {
		log.Fatalf("cannot read directory: %v", err)
	}

	tests := make([]TestMetadata, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(directory, entry.Name())
		catalog, err := model.InputFromPath(path)
		if err != nil {
			log.Fatalf("cannot parse catalog %v: %v", path, err)
		}
		tests = append(tests, newTestMetadata(path, catalog))
	}
	return tests
}

func getSyntheticTests(seed int64) []TestMetadata {
	names := []string{"small", "medium", "large"}
	return lo.Map(names, func(name string, _ int) TestMetadata {
		catalog, err := synthesize(syntheticSizes[name], seed)
		if err != nil {
			log.Fatalf("cannot synthesize catalog \"%v\": %v", name, err)
		}
		return newTestMetadata(name, catalog)
	})
}

func newTestMetadata(name string, catalog *model.Catalog) TestMetadata {
	return TestMetadata{
		Name:     name,
		Catalog:  catalog,
		Programs: len(catalog.Programs),
		Groups:   len(catalog.Groups),
		Teachers: len(catalog.Teachers),
		Rooms:    len(catalog.Rooms),
		Courses:  len(catalog.Courses),
	}
}

func getTimetablers() []TimetablerMetadata {
	return []TimetablerMetadata{
		{Strategy: schedule.StrategyGreedy, TieBreak: schedule.TieBreakCatalog},
		{Strategy: schedule.StrategyGreedy, TieBreak: schedule.TieBreakLevel},
		{Strategy: schedule.StrategyMatching, TieBreak: schedule.TieBreakCatalog},
		{Strategy: schedule.StrategyMatching, TieBreak: schedule.TieBreakLevel},
	}
}

func measure(metadata TimetablerMetadata, test TestMetadata, grid model.Grid) BenchmarkResult {
	timetabler, err := schedule.NewTimetabler(metadata.Strategy, metadata.TieBreak)
	if err != nil {
		log.Fatalf("cannot initialize timetabler: %v", err)
	}
	input := schedule.Input{Catalog: test.Catalog, Grid: grid}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	start := time.Now()

	result, err := timetabler.Build(input)

	duration := time.Since(start)
	runtime.ReadMemStats(&after)
	if err != nil {
		log.Fatalf("an error occurred during the construction of test \"%v\" using strategy \"%v\": %v", test.Name, metadata.Strategy, err)
	}

	return BenchmarkResult{
		Strategy:    string(metadata.Strategy),
		TieBreak:    string(metadata.TieBreak),
		Test:        test.Name,
		Programs:    test.Programs,
		Groups:      test.Groups,
		Teachers:    test.Teachers,
		Rooms:       test.Rooms,
		Courses:     test.Courses,
		Duration:    duration.Microseconds(),
		Memory:      float32(after.TotalAlloc-before.TotalAlloc) / MB,
		Placed:      len(result.Assignments),
		Unscheduled: len(result.Unscheduled),
		Violations:  len(timetabler.Verify(result.Assignments, input)),
	}
}

func toCsv(results []BenchmarkResult, path string) {
	file, err := os.Create(path)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&results, file); err != nil {
		log.Panicf("cannot write CSV records: %v", err)
	}
}

// synthesize builds a catalog of the given number of programs. Each program has a few groups, lectures for the
// whole program and a tutorial and a lab per group. Rooms are scaled so that most demands can be placed
func synthesize(programs int, seed int64) (*model.Catalog, error) {
	random := rand.New(rand.NewSource(seed))
	levels := []string{"L1", "L2", "L3", "M1", "M2"}
	raw := model.RawCatalog{}

	//** Teachers
	teachers := programs * 3
	for i := range teachers {
		raw.Teachers = append(raw.Teachers, model.RawTeacher{Code: fmt.Sprintf("T%03d", i)})
	}
	teacher := func() string { return raw.Teachers[random.Intn(teachers)].Code }

	//** Programs, groups and courses
	for p := range programs {
		program := fmt.Sprintf("P%02d", p)
		raw.Programs = append(raw.Programs, model.RawProgram{Code: program, Level: levels[p%len(levels)]})

		for l := range 2 {
			raw.Courses = append(raw.Courses, model.RawCourse{
				Code:      fmt.Sprintf("%v-CM%d", program, l),
				Teacher:   teacher(),
				Program:   program,
				Kind:      "CM",
				Equipment: model.Equipment{"projector"},
			})
		}

		for g := range 2 + random.Intn(2) {
			group := fmt.Sprintf("%v-G%d", program, g)
			raw.Groups = append(raw.Groups, model.RawGroup{Code: group, Program: program, Size: 18 + random.Intn(12)})
			raw.Courses = append(raw.Courses,
				model.RawCourse{Code: group + "-TD", Teacher: teacher(), Program: program, Group: group, Kind: "TD"},
				model.RawCourse{Code: group + "-TP", Teacher: teacher(), Program: program, Group: group, Kind: "TP", Equipment: model.Equipment{"computers"}},
			)
		}
	}

	//** Rooms
	for i := range max(1, programs/2) {
		raw.Rooms = append(raw.Rooms, model.RawRoom{Code: fmt.Sprintf("AMPHI-%02d", i), Capacity: 100 + 20*random.Intn(3), Equipment: model.Equipment{"projector", "microphone"}})
	}
	for i := range programs {
		raw.Rooms = append(raw.Rooms, model.RawRoom{Code: fmt.Sprintf("S%03d", i), Capacity: 30 + 5*random.Intn(2), Equipment: model.Equipment{"projector"}})
	}
	for i := range max(1, programs/2) {
		raw.Rooms = append(raw.Rooms, model.RawRoom{Code: fmt.Sprintf("LAB-%02d", i), Capacity: 30, Equipment: model.Equipment{"computers"}})
	}

	return model.ProcessRawInput(raw)
}
