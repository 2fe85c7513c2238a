package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"shelterprep/pkg/contracts/domain"
)

// Canonical (post-normalization) names of the columns the deriver consumes.
const (
	ColDateTime       = "date_time"
	ColAnimalType     = "animal_type"
	ColName           = "name"
	ColSexUponOutcome = "sex_upon_outcome"
	ColBreed          = "breed"
	ColAgeUponOutcome = "age_upon_outcome"
)

// Names of the derived columns.
const (
	ColIsDog           = "is_dog"
	ColHasName         = "has_name"
	ColSex             = "sex"
	ColNeutered        = "neutered"
	ColHairType        = "hair_type"
	ColDaysUponOutcome = "days_upon_outcome"
)

// unitDays maps an age unit token to its length in days. Tokens outside the
// table make the row's age missing rather than failing the load.
var unitDays = map[string]float64{
	"year":   365,
	"years":  365,
	"month":  30,
	"months": 30,
	"week":   7,
	"weeks":  7,
	"day":    1,
	"days":   1,
}

// Deriver computes the six outcome features. Each rule is a stateless
// column-wise function; the only side effect anywhere is the anomaly
// diagnostic emitted by IsDog.
type Deriver struct {
	logger *slog.Logger
}

// NewDeriver creates a deriver. A nil logger falls back to slog.Default().
func NewDeriver(logger *slog.Logger) *Deriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deriver{logger: logger}
}

// AddFeatures returns a new table carrying every column of t plus the six
// derived columns. The input table is never mutated. Deriving over an
// already-augmented table recomputes the derived columns in place, so the
// operation is idempotent.
func (d *Deriver) AddFeatures(t *domain.Table) (*domain.Table, error) {
	required := []string{ColAnimalType, ColName, ColSexUponOutcome, ColBreed, ColAgeUponOutcome}
	cols := make(map[string][]string, len(required))
	for _, name := range required {
		s, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
		if s.Kind != domain.KindString {
			return nil, fmt.Errorf("column %q is %s, want string", name, s.Kind)
		}
		cols[name] = s.Strings
	}

	out := t.Clone()

	days, daysValid := ComputeDaysUponOutcome(cols[ColAgeUponOutcome])

	derived := []domain.Series{
		domain.NewBoolSeries(ColIsDog, d.IsDog(cols[ColAnimalType])),
		domain.NewBoolSeries(ColHasName, HasName(cols[ColName])),
		domain.NewStringSeries(ColSex, ClassifySex(cols[ColSexUponOutcome])),
		domain.NewStringSeries(ColNeutered, ClassifyNeutered(cols[ColSexUponOutcome])),
		domain.NewStringSeries(ColHairType, ClassifyHairType(cols[ColBreed])),
		domain.NewFloatSeries(ColDaysUponOutcome, days, daysValid),
	}
	for _, s := range derived {
		if err := out.SetSeries(s); err != nil {
			return nil, fmt.Errorf("add derived column %q: %w", s.Name, err)
		}
	}
	return out, nil
}

// IsDog reports, per row, whether the case-folded animal type equals "dog".
// Any value outside the dog/cat vocabulary is logged at error level and
// classified false; classification always proceeds.
func (d *Deriver) IsDog(animalType []string) []bool {
	out := make([]bool, len(animalType))
	for i, v := range animalType {
		switch strings.ToLower(v) {
		case "dog":
			out[i] = true
		case "cat":
			// expected, not a dog
		default:
			d.logger.Error("found something else but dogs and cats",
				slog.Int("row", i),
				slog.String("animal_type", v))
		}
	}
	return out
}

// HasName reports, per row, whether the animal has a real name, i.e. the
// case-folded name is not the literal "unknown".
func HasName(names []string) []bool {
	out := make([]bool, len(names))
	for i, v := range names {
		out[i] = strings.ToLower(v) != "unknown"
	}
	return out
}

// ClassifySex maps the compound sex/fix field to female, male or unknown.
// The "Female" suffix is tested before "Male": "Male" is itself a suffix of
// "Female", so the order is what keeps the two classes disjoint.
func ClassifySex(sexUponOutcome []string) []string {
	out := make([]string, len(sexUponOutcome))
	for i, v := range sexUponOutcome {
		switch {
		case strings.HasSuffix(v, "Female"):
			out[i] = "female"
		case strings.HasSuffix(v, "Male"):
			out[i] = "male"
		default:
			out[i] = "unknown"
		}
	}
	return out
}

// ClassifyNeutered maps the compound sex/fix field to fixed, intact or
// unknown. Every row matching neither membership falls through to unknown.
func ClassifyNeutered(sexUponOutcome []string) []string {
	out := make([]string, len(sexUponOutcome))
	for i, v := range sexUponOutcome {
		folded := strings.ToLower(v)
		switch {
		case strings.Contains(folded, "neutered"), strings.Contains(folded, "spayed"):
			out[i] = "fixed"
		case strings.Contains(folded, "intact"):
			out[i] = "intact"
		default:
			out[i] = "unknown"
		}
	}
	return out
}

// hairTypes is checked in order; the first substring match wins, so a breed
// naming both "shorthair" and "longhair" classifies as shorthair.
var hairTypes = []string{"shorthair", "medium hair", "longhair"}

// ClassifyHairType maps a free-text breed to a coarse coat-length category.
func ClassifyHairType(breeds []string) []string {
	out := make([]string, len(breeds))
	for i, v := range breeds {
		folded := strings.ToLower(v)
		out[i] = "unknown"
		for _, hair := range hairTypes {
			if strings.Contains(folded, hair) {
				out[i] = hair
				break
			}
		}
	}
	return out
}

// ComputeDaysUponOutcome parses "<magnitude> <unit>" age strings into days.
// The returned mask marks which rows produced a value; an "Unknown" literal,
// a malformed magnitude or a unit outside the mapping all yield a missing
// row, never an error.
func ComputeDaysUponOutcome(ageUponOutcome []string) ([]float64, []bool) {
	days := make([]float64, len(ageUponOutcome))
	valid := make([]bool, len(ageUponOutcome))
	for i, v := range ageUponOutcome {
		fields := strings.Fields(v)
		if len(fields) == 0 || fields[0] == MissingSentinel {
			continue
		}
		if len(fields) != 2 {
			continue
		}
		magnitude, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		perUnit, ok := unitDays[fields[1]]
		if !ok {
			continue
		}
		days[i] = magnitude * perUnit
		valid[i] = true
	}
	return days, valid
}
