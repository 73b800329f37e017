package wind

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/tactics-server/latlon"
)

const stampLayout = "2006010215"

// forecastWinds holds up to two gribs valid at the same hour, the previous
// model run first and the newer one second.
type forecastWinds []*Grib

// Store indexes the grib files of a directory by the hour they are valid
// at. File names follow the <run>.f<hour> convention, e.g. 2024060112.f003.
type Store struct {
	dir   string
	winds map[string]forecastWinds
	lock  sync.RWMutex
}

func OpenStore(dir string) (*Store, error) {
	s := &Store{dir: dir, winds: map[string]forecastWinds{}}
	if err := s.Merge(); err != nil {
		return nil, err
	}
	return s, nil
}

// Merge reconciles the index with the directory content: gone files are
// dropped, new files are decoded and added. Safe to call on a schedule.
func (s *Store) Merge() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	var toRemove []string
	for k, ws := range s.winds {
		if _, err := os.Stat(filepath.Join(s.dir, ws[0].File)); os.IsNotExist(err) {
			toRemove = append(toRemove, k)
		}
	}
	for _, k := range toRemove {
		log.Infof("Remove %s from winds", k)
		delete(s.winds, k)
	}

	var files []string
	err := filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.WithError(err).Errorf("Error walking file '%s'", path)
		} else if info.Mode().IsRegular() && !strings.HasSuffix(info.Name(), ".tmp") {
			files = append(files, info.Name())
		}
		return nil
	})
	if err != nil {
		return err
	}

	sort.Strings(files)

	for _, file := range files {
		parts := strings.Split(file, ".")
		if len(parts) != 2 || len(parts[1]) < 2 {
			log.Debugf("Skip file '%s'", file)
			continue
		}

		run, err := time.Parse(stampLayout, parts[0])
		if err != nil {
			log.WithError(err).Warnf("Error parsing run date of '%s'", file)
			continue
		}
		h, err := strconv.Atoi(parts[1][1:])
		if err != nil {
			log.WithError(err).Warnf("Error parsing forecast hour of '%s'", file)
			continue
		}

		date := run.Add(time.Hour * time.Duration(h))
		stamp := date.Format(stampLayout)

		ws, found := s.winds[stamp]
		if found {
			if len(ws) == 2 || ws[len(ws)-1].File == file {
				continue
			}
		}

		w, err := LoadGrib(date, filepath.Join(s.dir, file))
		if err != nil {
			log.WithError(err).Errorf("Error loading grib file '%s'", file)
			continue
		}
		log.Debugf("Init %s %s", stamp, w.File)
		s.winds[stamp] = append(s.winds[stamp], &w)
	}

	return nil
}

func (s *Store) Size() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.winds)
}

// findWinds returns the forecasts bracketing m and the blend factor
// between them. The caller holds the lock.
func (s *Store) findWinds(m time.Time) (forecastWinds, forecastWinds, float64) {

	if len(s.winds) == 0 {
		return nil, nil, 0
	}

	stamp := m.Format(stampLayout)

	keys := make([]string, 0, len(s.winds))
	for k := range s.winds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if keys[0] > stamp {
		return s.winds[keys[0]], nil, 0
	}
	for i := range keys {
		if keys[i] > stamp {
			h := m.Sub(s.winds[keys[i-1]][0].Date).Minutes()
			delta := s.winds[keys[i]][0].Date.Sub(s.winds[keys[i-1]][0].Date).Minutes()
			return s.winds[keys[i-1]], s.winds[keys[i]], h / delta
		}
	}
	return s.winds[keys[len(keys)-1]], nil, 0
}

func (ws forecastWinds) uv(lat, lon, h float64) (float64, float64, bool) {

	if len(ws) == 1 {
		return ws[0].uv(lat, lon)
	}

	u1, v1, ok1 := ws[0].uv(lat, lon)
	u2, v2, ok2 := ws[1].uv(lat, lon)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return u2*h + u1*(1-h), v2*h + v1*(1-h), true
}

func unix(t float64) time.Time {
	sec := math.Floor(t)
	return time.Unix(int64(sec), int64((t-sec)*1e9)).UTC()
}

// Sample implements Field. Confidence and variability come from the
// agreement between the two bracketing forecasts: the more their
// directions disagree at this position, the shakier the sample.
func (s *Store) Sample(lat, lon, t float64) (Sample, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	w1, w2, h := s.findWinds(unix(t))
	if w1 == nil {
		return Sample{}, false
	}

	u, v, ok := w1.uv(lat, lon, h)
	if !ok {
		return Sample{}, false
	}

	confidence := DefaultConfidence
	variability := DefaultVariability

	if w2 != nil {
		u2, v2, ok2 := w2.uv(lat, lon, h)
		if ok2 {
			d1 := math.Sqrt(u*u + v*v)
			d2 := math.Sqrt(u2*u2 + v2*v2)
			if d1 > 0 && d2 > 0 {
				spread := math.Abs(latlon.AngleDiff(vectorToDegrees(u, v, d1), vectorToDegrees(u2, v2, d2)))
				variability = math.Min(1, DefaultVariability+spread/90)
				confidence = math.Max(0.3, DefaultConfidence-spread/180)
			}
			u = u2*h + u*(1-h)
			v = v2*h + v*(1-h)
		}
	}

	d := math.Sqrt(u*u + v*v)
	if d == 0 {
		return Sample{Confidence: confidence, Variability: variability}, true
	}

	return Sample{
		Direction:   vectorToDegrees(u, v, d),
		Speed:       d * MsToKts,
		Confidence:  confidence,
		Variability: variability,
	}, true
}

// fieldAt is the store pinned to one forecast time, whatever time the
// detector asks for.
type fieldAt struct {
	store *Store
	at    float64
}

func (f fieldAt) Sample(lat, lon, t float64) (Sample, bool) {
	return f.store.Sample(lat, lon, f.at)
}

// Predict implements Forecaster. A target past the last loaded forecast
// is absent, not an error.
func (s *Store) Predict(target float64, current Field) (Field, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if len(s.winds) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(s.winds))
	for k := range s.winds {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	last, err := time.Parse(stampLayout, keys[len(keys)-1])
	if err != nil {
		return nil, err
	}
	if unix(target).After(last.Add(time.Hour)) {
		return nil, nil
	}

	return fieldAt{store: s, at: target}, nil
}
