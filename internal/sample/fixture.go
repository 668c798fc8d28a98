// Package sample builds evaluation datasets: a small hand-written fixture
// used by tests and demos, and a seeded generator for larger synthetic
// datasets.
package sample

import (
	"encoding/json"
	"strconv"

	"github.com/okian/palmares/internal/domain/dataset"
)

// Fixture college ids.
const (
	Montesquieu = "college-montesquieu"
	Camus       = "college-camus"
	Pagnol      = "college-pagnol"
	Ferry       = "college-ferry"
	Ghost       = "college-ghost"
)

// Fixture returns a small dataset covering the irregular cases the
// dashboard tolerates: a cohort member without metadata, a college without
// score record, string, null and out-of-range scores, and a group key
// missing from the cohort groups.
//
// Averages for 2024 over every row: Montesquieu 3.6, Pagnol 2.6, Camus 1.5,
// Ferry and Ghost none.
func Fixture() *dataset.Dataset {
	return &dataset.Dataset{
		Axes: dataset.Axes{
			{Key: "espaces", Label: "Espaces"},
			{Key: "enseignements", Label: "Enseignements"},
			{Key: "outils", Label: "Outils numériques"},
			{Key: "eleves", Label: "Élèves"},
			{Key: "partenaires", Label: "Partenaires"},
		},
		Cohorts: map[string]dataset.Cohort{
			"2024": {
				Label: "Rentrée 2024",
				Groups: []dataset.Group{
					{Key: "rep", Label: "Réseau REP"},
					{Key: "hors", Label: "Hors réseau"},
				},
				Colleges: []dataset.CohortMember{
					{
						ID: Montesquieu, GroupKey: "hors", Type: "Public",
						Highlights: dataset.TextList{"Fablab ouvert aux familles"},
						Notes:      dataset.TextList{"Salle informatique vieillissante"},
					},
					{ID: Camus, GroupKey: "rep", Type: "Public", Notes: dataset.TextList{"Partenariats à développer"}},
					{ID: Pagnol, GroupKey: "rep", Type: "Privé"},
					{ID: Ferry, GroupKey: "hors", Type: "Public"},
					{ID: Ghost, Name: "Collège Fantôme", GroupKey: "inconnu"},
				},
			},
			"2023": {
				Groups: []dataset.Group{{Key: "rep", Label: "REP"}},
				Colleges: []dataset.CohortMember{
					{ID: Montesquieu, GroupKey: "rep", Type: "Public"},
					{ID: Camus, GroupKey: "rep", Type: "Public"},
				},
			},
		},
		Colleges: []dataset.College{
			{ID: Montesquieu, Name: "Collège Montesquieu", City: "Herblay"},
			{ID: Camus, Name: "Collège Albert Camus", City: "Cergy"},
			{ID: Pagnol, Name: "Collège Marcel Pagnol", City: "Pontoise"},
			{ID: Ferry, Name: "Collège Jules Ferry", City: "Sarcelles"},
		},
		CollegeScores: []dataset.ScoreRecord{
			{CollegeID: Montesquieu, Year: "2024", Scores: Scores(map[string]any{
				"espaces": 4, "enseignements": 3, "outils": 4, "eleves": 3, "partenaires": 4,
			}), SourceRef: "Visite 2024-03"},
			{CollegeID: Camus, Year: "2024", Scores: Scores(map[string]any{
				"espaces": 2, "enseignements": 1, "outils": 2, "eleves": "n/a", "partenaires": 1,
			})},
			{CollegeID: Pagnol, Year: "2024", Scores: Scores(map[string]any{
				"espaces": 3, "enseignements": 3, "outils": 2, "eleves": 3, "partenaires": 2,
			}), SourceRef: "Rapport 2024-07"},
			{CollegeID: Ferry, Year: "2024", Scores: Scores(map[string]any{
				"espaces": nil, "enseignements": 7,
			})},
			{CollegeID: Montesquieu, Year: "2023", Scores: Scores(map[string]any{
				"espaces": 3, "enseignements": 3, "outils": 3, "eleves": 3, "partenaires": 3,
			})},
			{CollegeID: Camus, Year: "2023", Scores: Scores(map[string]any{
				"espaces": 2, "enseignements": 2, "outils": 2, "eleves": 2, "partenaires": 2,
			})},
		},
		Meta: dataset.Meta{Title: "Val d'Oise colleges", UpdatedAt: "2024-09-01"},
	}
}

// Scores encodes plain values as raw score entries.
func Scores(values map[string]any) dataset.Scores {
	out := make(dataset.Scores, len(values))
	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			raw = []byte("null")
		}
		out[k] = raw
	}
	return out
}

// Number encodes one score value.
func Number(v float64) json.RawMessage {
	return json.RawMessage(strconv.FormatFloat(v, 'f', -1, 64))
}
