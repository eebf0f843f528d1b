// Command growthcalc evaluates a child anthropometric measurement against
// the WHO / INTERGROWTH-21st reference distributions in a compiled dataset.
//
// Examples:
//
//	growthcalc -dataset who.csv -measurement weight -sex M -age-days 274 -value 9.7
//	growthcalc -dataset who.csv -measurement wfa -sex M -age-years 2 -age-months 3 -percentile 5
//	growthcalc -dataset who.sqlite -measurement weight -sex F -age-days 0 -ga-weeks 30 -value 1.2
//
// The dataset reference may also be an artifact key served by the store
// selected via GROWTHSTANDARDS_DATASET_DRIVER, or a postgres:// DSN.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"growthstandards/internal/core"
	"growthstandards/internal/dataset"
)

var exitFunc = os.Exit

func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("growthcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		datasetRef   = fs.String("dataset", "", "dataset reference: local .csv/.sqlite path, artifact key, or postgres:// DSN")
		measurement  = fs.String("measurement", "", "measurement type or alias (weight, wfa, stature, bmi, hcfa, wfl, ...)")
		sex          = fs.String("sex", "", "child sex: M or F")
		ageDays      = fs.Float64("age-days", 0, "chronological age: days component")
		ageMonths    = fs.Float64("age-months", 0, "chronological age: months component (mean Gregorian month)")
		ageYears     = fs.Float64("age-years", 0, "chronological age: years component")
		birthDate    = fs.String("birth-date", "", "birth date (YYYY-MM-DD); age computed from -measured-on or today")
		measuredOn   = fs.String("measured-on", "", "measurement date (YYYY-MM-DD), used with -birth-date")
		gaWeeks      = fs.Float64("ga-weeks", 0, "completed gestational weeks at birth (0 = unknown)")
		lengthCM     = fs.Float64("length-cm", 0, "recumbent length / height in cm (weight-for-length queries)")
		value        = fs.Float64("value", 0, "observed measurement value; prints z-score and percentile")
		zScore       = fs.Float64("z", 0, "target z-score; prints the corresponding value")
		percentile   = fs.Float64("percentile", 0, "target percentile (0-100 exclusive); prints the corresponding value")
		intervalDays = fs.Int("interval-days", 0, "velocity interval in days (30 or 61); -value is the increment")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *datasetRef == "" {
		fmt.Fprintln(stderr, "growthcalc: -dataset required")
		return 2
	}

	haveValue := flagSet(fs, "value")
	haveZ := flagSet(fs, "z")
	havePercentile := flagSet(fs, "percentile")
	if countTrue(haveValue, haveZ, havePercentile) != 1 {
		fmt.Fprintln(stderr, "growthcalc: exactly one of -value, -z, -percentile required")
		return 2
	}

	age := core.AgeToDays(*ageYears, *ageMonths, *ageDays)
	if *birthDate != "" {
		if flagSet(fs, "age-days") || flagSet(fs, "age-months") || flagSet(fs, "age-years") {
			fmt.Fprintln(stderr, "growthcalc: -birth-date conflicts with the -age-* flags")
			return 2
		}
		var err error
		age, err = ageFromDates(*birthDate, *measuredOn)
		if err != nil {
			fmt.Fprintf(stderr, "growthcalc: %v\n", err)
			return 2
		}
	}

	ctx := context.Background()
	store, err := dataset.Open(ctx, *datasetRef)
	if err != nil {
		fmt.Fprintf(stderr, "growthcalc: %v\n", err)
		return 1
	}

	calc := core.NewCalculator(store)
	req := core.Request{
		Measurement:         *measurement,
		Sex:                 *sex,
		AgeDays:             age,
		GestationalAgeWeeks: *gaWeeks,
		LengthCM:            *lengthCM,
	}

	if err := evaluate(stdout, calc, req, evalArgs{
		haveValue:    haveValue,
		haveZ:        haveZ,
		value:        *value,
		z:            *zScore,
		percentile:   *percentile,
		intervalDays: *intervalDays,
	}); err != nil {
		fmt.Fprintf(stderr, "growthcalc: %v\n", err)
		return 1
	}
	return 0
}

type evalArgs struct {
	haveValue    bool
	haveZ        bool
	value        float64
	z            float64
	percentile   float64
	intervalDays int
}

func evaluate(stdout io.Writer, calc *core.Calculator, req core.Request, args evalArgs) error {
	switch {
	case args.haveValue && args.intervalDays > 0:
		z, err := calc.VelocityZScore(req, args.intervalDays, args.value)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "velocity z-score: %.4f\npercentile: %.2f\n", z, core.PercentileFromZ(z))
	case args.haveValue:
		z, err := calc.ZScore(req, args.value)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "z-score: %.4f\npercentile: %.2f\n", z, core.PercentileFromZ(z))
	case args.haveZ:
		v, err := calc.ValueForZScore(req, args.z)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "value: %.4f\n", v)
	default:
		v, err := calc.ValueForPercentile(req, args.percentile)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "value: %.4f\n", v)
	}
	return nil
}

// ageFromDates derives chronological age in days from calendar dates. An
// empty measurement date means today.
func ageFromDates(birth, measured string) (float64, error) {
	const layout = "2006-01-02"
	b, err := time.Parse(layout, birth)
	if err != nil {
		return 0, fmt.Errorf("parse -birth-date: %w", err)
	}
	m := time.Now().UTC().Truncate(24 * time.Hour)
	if measured != "" {
		m, err = time.Parse(layout, measured)
		if err != nil {
			return 0, fmt.Errorf("parse -measured-on: %w", err)
		}
	}
	if m.Before(b) {
		return 0, fmt.Errorf("-measured-on %s precedes -birth-date %s", m.Format(layout), birth)
	}
	return m.Sub(b).Hours() / 24, nil
}

func flagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func countTrue(vals ...bool) int {
	n := 0
	for _, v := range vals {
		if v {
			n++
		}
	}
	return n
}
