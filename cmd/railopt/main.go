// Command railopt plans maintenance and route coverage for a fleet of
// rail vehicles over a multi-day horizon, either from a generated
// synthetic instance or from a JSON file on disk.
package main

import (
	"flag"
	"os"
	"time"

	"railopt/internal/backend/mipsat"
	"railopt/internal/generator"
	"railopt/internal/instance"
	"railopt/internal/logging"
	"railopt/internal/planner"
	"railopt/internal/railerr"
	"railopt/internal/schedule"
)

func main() {
	os.Exit(run())
}

func run() int {
	vehicles := flag.Int("vehicles", 10, "number of vehicles in the generated fleet")
	depots := flag.Int("depots", 2, "number of depot locations in the generated instance")
	parkings := flag.Int("parkings", 2, "number of parking locations in the generated instance")
	routesPerDay := flag.Int("routes-per-day", 8, "number of routes per planning day in the generated instance")
	days := flag.Int("days", 14, "planning horizon in days")
	seed := flag.Int64("seed", 0, "random seed for instance generation (ignored when -in is set)")
	timeLimit := flag.Duration("time-limit", 30*time.Second, "solver time budget")
	inPath := flag.String("in", "", "path to a JSON instance file; generates a synthetic instance if unset")
	savePath := flag.String("save", "", "path or directory to save the resulting schedule JSON")
	flag.Parse()

	logging.Init(logging.FromEnv())
	log := logging.Named("railopt")

	inst, err := loadOrGenerate(*inPath, generator.Options{
		Vehicles:     *vehicles,
		Depots:       *depots,
		Parkings:     *parkings,
		RoutesPerDay: *routesPerDay,
		PlanningDays: *days,
		Seed:         *seed,
	})
	if err != nil {
		log.Error().Err(err).Msg("load instance")
		return exitCode(err)
	}

	log.Info().Int("vehicles", len(inst.Vehicles)).Int("routes", len(inst.Routes)).Msg("building model")
	built := planner.Build(inst)

	log.Info().Dur("time_limit", *timeLimit).Msg("solving")
	sol, err := mipsat.Solve(built.Model, mipsat.Options{TimeLimit: *timeLimit})
	if err != nil {
		log.Error().Err(err).Msg("solve")
		return exitCode(err)
	}

	switch sol.StatusString() {
	case string(mipsat.Optimal), string(mipsat.Feasible):
	default:
		log.Error().Str("status", sol.StatusString()).Msg("solve did not produce a usable schedule")
		return 2
	}

	result := planner.Project(inst, built.Index, built.Grid, built.Vars, sol)
	schedule.PrintConsoleSummary(os.Stdout, result)

	if *savePath != "" {
		outPath, err := schedule.Save(*savePath, result)
		if err != nil {
			log.Error().Err(err).Msg("save schedule")
			return 1
		}
		log.Info().Str("path", outPath).Msg("schedule saved")
	}

	return 0
}

func loadOrGenerate(inPath string, opts generator.Options) (*instance.Instance, error) {
	if inPath == "" {
		return generator.Generate(opts), nil
	}
	f, err := os.Open(inPath)
	if err != nil {
		return nil, railerr.Wrap(railerr.IoError, "open instance file", err)
	}
	defer f.Close()
	return instance.LoadFromReader(f)
}

func exitCode(err error) int {
	switch railerr.CodeOf(err) {
	case railerr.InstanceInvalid, railerr.Infeasible:
		return 2
	default:
		return 1
	}
}
