package sample

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/palmares/internal/domain/dataset"
	"github.com/okian/palmares/pkg/logger"
)

// ErrInvalidConfig reports unusable generator settings.
var ErrInvalidConfig = errors.New("invalid generator config")

// Profile cases for score generation.
const (
	caseAverage = 0
	caseStrong  = 1
	caseWeak    = 2
	caseWide    = 3
	caseCount   = 4

	averageMin  = 1.5
	averageSpan = 1.5
	strongMin   = 3.0
	strongSpan  = 1.0
	weakMin     = 0.0
	weakSpan    = 1.5
	wideSpan    = 4.0

	// Scores are given in half points.
	scoreStep = 0.5
)

var (
	cityNames = []string{
		"Cergy", "Pontoise", "Argenteuil", "Sarcelles", "Herblay", "Ermont",
		"Taverny", "Bezons", "Garges-lès-Gonesse", "Goussainville", "Eaubonne", "Montmorency",
	}
	collegeNames = []string{
		"Montesquieu", "Albert Camus", "Marcel Pagnol", "Jules Ferry", "Victor Hugo", "Jean Moulin",
		"Louise Michel", "Paul Éluard", "Simone Veil", "Jean Jaurès", "Émile Zola", "Pierre Curie",
	}
	collegeTypes = []string{"Public", "Privé"}
	defaultAxes  = dataset.Axes{
		{Key: "espaces", Label: "Espaces"},
		{Key: "enseignements", Label: "Enseignements"},
		{Key: "outils", Label: "Outils numériques"},
		{Key: "eleves", Label: "Élèves"},
		{Key: "partenaires", Label: "Partenaires"},
	}
	idNamespace = uuid.MustParse("6f0b8f1e-2d1a-4c53-9a43-3f3d0a6f7c11")
)

// Generate builds a synthetic dataset. The same Config always yields the
// same dataset.
func Generate(ctx context.Context, cfg Config) (*dataset.Dataset, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic seed for reproducible datasets

	ds := &dataset.Dataset{
		Axes:    append(dataset.Axes(nil), defaultAxes...),
		Cohorts: make(map[string]dataset.Cohort, cfg.Years),
		Meta: dataset.Meta{
			Title:     dataset.Text(fmt.Sprintf("Synthetic dataset (seed %d)", cfg.Seed)),
			UpdatedAt: dataset.Text(strconv.Itoa(cfg.FirstYear+cfg.Years-1) + "-09-01"),
		},
	}

	ids := make([]string, cfg.Colleges)
	for i := range ids {
		ids[i] = collegeID(cfg.Seed, i)
		ds.Colleges = append(ds.Colleges, dataset.College{
			ID:   dataset.Text(ids[i]),
			Name: dataset.Text(collegeName(i)),
			City: dataset.Text(cityNames[rng.Intn(len(cityNames))]),
		})
	}

	for y := 0; y < cfg.Years; y++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during dataset generation: %w", ctx.Err())
		default:
		}
		year := strconv.Itoa(cfg.FirstYear + y)
		cohort := dataset.Cohort{Label: dataset.Text("Rentrée " + year)}
		for g := 0; g < cfg.Groups; g++ {
			cohort.Groups = append(cohort.Groups, dataset.Group{
				Key:   dataset.Text("g" + strconv.Itoa(g+1)),
				Label: dataset.Text("Réseau " + strconv.Itoa(g+1)),
			})
		}
		for i, id := range ids {
			member := dataset.CohortMember{
				ID:   dataset.Text(id),
				Type: dataset.Text(collegeTypes[rng.Intn(len(collegeTypes))]),
			}
			if cfg.Groups > 0 {
				member.GroupKey = cohort.Groups[i%cfg.Groups].Key
			}
			cohort.Colleges = append(cohort.Colleges, member)
			ds.CollegeScores = append(ds.CollegeScores, dataset.ScoreRecord{
				CollegeID: dataset.Text(id),
				Year:      dataset.Year(year),
				Scores:    generateScores(rng, cfg.MissingRate),
				SourceRef: dataset.Text("Synthèse " + year),
			})
		}
		ds.Cohorts[year] = cohort
	}

	logger.Get().Debug(ctx, "generated dataset",
		logger.Int("colleges", len(ds.Colleges)),
		logger.Int("years", len(ds.Cohorts)),
		logger.Int("scoreRecords", len(ds.CollegeScores)),
	)
	return ds, nil
}

func validate(cfg Config) error {
	switch {
	case cfg.Colleges < 1:
		return fmt.Errorf("%w: colleges must be positive", ErrInvalidConfig)
	case cfg.Years < 1:
		return fmt.Errorf("%w: years must be positive", ErrInvalidConfig)
	case cfg.Groups < 0:
		return fmt.Errorf("%w: groups must not be negative", ErrInvalidConfig)
	case cfg.MissingRate < 0 || cfg.MissingRate > 1:
		return fmt.Errorf("%w: missing rate must be within [0, 1]", ErrInvalidConfig)
	}
	return nil
}

// collegeID derives a stable id from the seed and the college index.
func collegeID(seed int64, i int) string {
	return uuid.NewSHA1(idNamespace, []byte(strconv.FormatInt(seed, 10)+"/"+strconv.Itoa(i))).String()
}

func collegeName(i int) string {
	name := "Collège " + collegeNames[i%len(collegeNames)]
	if round := i / len(collegeNames); round > 0 {
		name += " " + strconv.Itoa(round+1)
	}
	return name
}

func generateScores(rng *rand.Rand, missingRate float64) dataset.Scores {
	profile := rng.Intn(caseCount)
	scores := make(dataset.Scores, len(defaultAxes))
	for _, ax := range defaultAxes {
		if rng.Float64() < missingRate {
			continue
		}
		scores[ax.Key] = Number(generateScore(rng, profile))
	}
	return scores
}

// generateScore draws a value for a college profile, rounded to half points.
func generateScore(rng *rand.Rand, profile int) float64 {
	var v float64
	switch profile {
	case caseAverage:
		v = averageMin + rng.Float64()*averageSpan
	case caseStrong:
		v = strongMin + rng.Float64()*strongSpan
	case caseWeak:
		v = weakMin + rng.Float64()*weakSpan
	case caseWide:
		v = rng.Float64() * wideSpan
	default:
		v = rng.Float64() * wideSpan
	}
	v = math.Round(v/scoreStep) * scoreStep
	return math.Max(0, math.Min(4, v))
}
