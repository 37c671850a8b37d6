package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/limaJavier/roomscheduler/pkg/config"
	"github.com/limaJavier/roomscheduler/pkg/schedule"
	"github.com/samber/lo"
)

type output struct {
	RunId       string             `json:"run"`
	Sessions    []schedule.Session `json:"sessions"`
	Unscheduled []unscheduled      `json:"unscheduled"`
}

type unscheduled struct {
	Course string `json:"course"`
	Reason string `json:"reason"`
}

func main() {
	// Define arguments
	catalogPtr := flag.String("catalog", "", "Path to the catalog: a JSON file or a directory of CSV files (teachers, programs, groups, rooms, courses and optionally unavailability)")
	configPtr := flag.String("config", "", "Path to a YAML or JSON configuration file; if empty, defaults and ROOMSCHED_* environment variables are used")
	strategyPtr := flag.String("strategy", "", `Strategy to build the timetable, overrides the configuration. Allowed values are:
- "greedy" (each course takes the smallest free suitable room at the first feasible slot) and
- "matching" (rooms of a slot may be re-assigned through a maximum bipartite matching)`)
	tieBreakPtr := flag.String("tiebreak", "", `Order of courses with the same student count, overrides the configuration. Allowed values are "catalog" and "level"`)
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	flag.Parse()
	outFile := *outFilePathPtr

	// Load configuration
	conf, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	if *catalogPtr != "" {
		conf.Catalog = *catalogPtr
	}
	if *strategyPtr != "" {
		conf.Strategy = strings.ToLower(*strategyPtr)
	}
	if *tieBreakPtr != "" {
		conf.TieBreak = strings.ToLower(*tieBreakPtr)
	}

	// Validate arguments
	if !slices.Contains(schedule.Strategies, schedule.Strategy(conf.Strategy)) {
		log.Fatalf("%v is not a valid strategy", conf.Strategy)
	} else if !slices.Contains(schedule.TieBreaks, schedule.TieBreak(conf.TieBreak)) {
		log.Fatalf("%v is not a valid tie-break policy", conf.TieBreak)
	} else if conf.Catalog == "" {
		log.Fatal("a catalog must be specified")
	}

	// Initialize engines
	grid, err := conf.Grid()
	if err != nil {
		log.Fatalf("invalid timeslot grid: %v", err)
	}
	timetabler, err := conf.Timetabler()
	if err != nil {
		log.Fatalf("cannot initialize timetabler: %v", err)
	}
	logger, err := conf.Logger()
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	defer logger.Sync()

	store := schedule.NewMemoryStore()
	generator := schedule.NewGenerator(
		schedule.NewFileCatalog(conf.Catalog),
		schedule.NewStaticReservations(),
		store,
		timetabler,
		grid,
		logger,
	)

	// Build timetable
	snapshot, err := generator.Generate(context.Background())
	var verification *schedule.VerificationError
	if errors.As(err, &verification) {
		for _, violation := range verification.Violations {
			fmt.Fprintln(os.Stderr, violation)
		}
		os.Exit(15)
	} else if err != nil {
		log.Fatalf("an error occurred during timetable construction: %v", err)
	}

	// Build output from snapshot
	result := output{
		RunId:    snapshot.RunId,
		Sessions: schedule.Sessions(snapshot.Catalog, snapshot.Assignments),
		Unscheduled: lo.Map(snapshot.Unscheduled, func(course schedule.Unscheduled, _ int) unscheduled {
			return unscheduled{Course: course.Code, Reason: course.Err.Error()}
		}),
	}

	// Marshal output into json
	resultJson, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("an error occurred while building output json: %v", err)
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if outFile == "" {
		fmt.Println(string(resultJson))
	} else {
		err := os.WriteFile(outFile, resultJson, 0666)
		if err != nil {
			log.Fatalf("an error occurred while writing to the output file: %v", err)
		}
	}

	if len(snapshot.Unscheduled) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d course(s) could not be scheduled: %v\n", len(snapshot.Unscheduled), strings.Join(lo.Map(result.Unscheduled, func(course unscheduled, _ int) string { return course.Course }), ", "))
		logger.Sync()
		os.Exit(20)
	}
	logger.Sync()
	os.Exit(10)
}
