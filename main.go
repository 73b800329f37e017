package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/jasonlvhit/gocron"
	"github.com/peterbourgon/ff"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/tactics-server/course"
	"github.com/a-bouts/tactics-server/polar"
	"github.com/a-bouts/tactics-server/tactics"
	"github.com/a-bouts/tactics-server/wind"
	"github.com/a-bouts/tactics-server/xmpp"
)

func main() {

	fs := flag.NewFlagSet("tactics-server", flag.ExitOnError)
	var (
		courseFile = fs.String("course", "", "course file (json)")
		gpxFile    = fs.String("gpx", "", "recorded track (gpx), used when no course file is given")
		gribDir    = fs.String("grib-data", "grib-data", "directory of grib forecast files")
		polarFile  = fs.String("polars", "", "boat polar file (json)")
		outFile    = fs.String("out", "", "write the analysis there instead of stdout")
		watch      = fs.Uint64("watch", 0, "re-run every n seconds as new forecasts arrive")
		cpuprofile = fs.Bool("cpuprofile", false, "write a cpu profile")
		debug      = fs.Bool("debug", false, "debug logs")

		minShiftAngle  = fs.Float64("min-wind-shift-angle", 10, "smallest direction change reported, degrees")
		horizon        = fs.Float64("prediction-horizon", 1800, "how far ahead to look for shifts, seconds")
		step           = fs.Float64("prediction-step", 300, "forecast scan step, seconds")
		threshold      = fs.Float64("confidence-threshold", 0.7, "minimal shift probability kept")
		decay          = fs.Float64("confidence-decay", 0.1, "forecast confidence decay over the horizon")
		minPropagation = fs.Float64("min-propagation-distance", 1000, "meters")
		historical     = fs.Bool("use-historical-data", true, "")

		xmppHost     = fs.String("xmpp-host", "", "")
		xmppJid      = fs.String("xmpp-jid", "", "")
		xmppPassword = fs.String("xmpp-password", "", "")
		xmppTo       = fs.String("xmpp-to", "", "")
	)
	ff.Parse(fs, os.Args[1:], ff.WithEnvVarNoPrefix())

	if *debug {
		log.SetLevel(log.DebugLevel)
	}
	if *cpuprofile {
		defer profile.Start().Stop()
	}

	cfg := tactics.Config{
		MinWindShiftAngle:      *minShiftAngle,
		PredictionHorizon:      *horizon,
		PredictionStep:         *step,
		ConfidenceThreshold:    *threshold,
		ConfidenceDecay:        *decay,
		MinPropagationDistance: *minPropagation,
		UseHistoricalData:      *historical,
	}

	c, warnings, err := loadCourse(*courseFile, *gpxFile)
	if err != nil {
		log.WithError(err).Fatal("Error loading course")
	}
	for _, w := range warnings {
		log.Warn(w)
	}

	log.Infof("Load winds from %s", *gribDir)
	var field wind.Field
	var forecaster wind.Forecaster
	store, err := wind.OpenStore(*gribDir)
	if err != nil {
		log.WithError(err).Error("Error loading winds, running without a wind field")
	} else {
		field, forecaster = store, store
	}

	var vmg tactics.VMG
	if *polarFile != "" {
		boat, err := polar.Load(*polarFile)
		if err != nil {
			log.WithError(err).Error("Error loading polars, running without vmg")
		} else {
			log.Infof("Loaded polars '%s'", boat.Label)
			vmg = boat
		}
	}

	analyzer := tactics.New(cfg, field, forecaster, vmg)
	notifier := xmpp.Notifier{Config: xmpp.Config{Host: *xmppHost, Jid: *xmppJid, Password: *xmppPassword, To: *xmppTo}}

	run := func() {
		res := analyzer.Analyze(context.Background(), c)
		sortAnalysis(&res)

		if err := writeAnalysis(res, *outFile); err != nil {
			log.WithError(err).Error("Error writing analysis")
			return
		}

		log.Infof("Analysis: %d wind shifts, %d tacks, %d laylines, %d warnings",
			len(res.WindShifts), len(res.Tacks), len(res.Laylines), len(res.Warnings))

		if notifier.Enabled() {
			notifier.Notify(fmt.Sprintf("tactics: %d wind shifts, %d tacks, %d laylines on '%s'",
				len(res.WindShifts), len(res.Tacks), len(res.Laylines), *courseFile+*gpxFile))
		}
	}

	run()

	if *watch > 0 && store != nil {
		s := gocron.NewScheduler()
		job := s.Every(*watch).Seconds()
		job.Do(func() {
			if err := store.Merge(); err != nil {
				log.WithError(err).Error("Error merging winds")
				return
			}
			run()
		})
		<-s.Start()
	}
}

func loadCourse(courseFile, gpxFile string) (course.Course, []string, error) {
	if courseFile != "" {
		return course.Load(courseFile)
	}
	if gpxFile != "" {
		return course.LoadGPX(gpxFile)
	}
	return course.Course{}, nil, fmt.Errorf("either -course or -gpx is required")
}

func sortAnalysis(res *tactics.Analysis) {
	sort.SliceStable(res.WindShifts, func(i, j int) bool {
		return res.WindShifts[i].TimeEstimate < res.WindShifts[j].TimeEstimate
	})
	sort.SliceStable(res.Tacks, func(i, j int) bool {
		return res.Tacks[i].TimeEstimate < res.Tacks[j].TimeEstimate
	})
	sort.SliceStable(res.Laylines, func(i, j int) bool {
		return res.Laylines[i].TimeEstimate < res.Laylines[j].TimeEstimate
	})
}

func writeAnalysis(res tactics.Analysis, outFile string) error {
	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
