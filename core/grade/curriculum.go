package grade

import "sort"

// Subject is one entry of a fixed curriculum.
type Subject struct {
	Name    string  `json:"name"`
	Credits float64 `json:"credits"`
}

// Curriculum is a semester whose subjects and credit weights are fixed;
// callers only supply one numeric score (0-10) per subject, in order.
type Curriculum struct {
	Term     int       `json:"term"`
	Subjects []Subject `json:"subjects"`
}

// Credits returns the credit schedule in subject order.
func (cur Curriculum) Credits() []float64 {
	credits := make([]float64, 0, len(cur.Subjects))
	for _, s := range cur.Subjects {
		credits = append(credits, s.Credits)
	}
	return credits
}

// TotalCredits returns the sum of the credit schedule.
func (cur Curriculum) TotalCredits() float64 {
	var total float64
	for _, s := range cur.Subjects {
		total += s.Credits
	}
	return total
}

// Average returns the SGPA of scores against the curriculum's credit schedule (see FixedAverage).
func (cur Curriculum) Average(scores []float64) float64 {
	return FixedAverage(scores, cur.Credits())
}

func (cur Curriculum) clone() Curriculum {
	subjects := make([]Subject, len(cur.Subjects))
	copy(subjects, cur.Subjects)
	return Curriculum{Term: cur.Term, Subjects: subjects}
}

var curricula = map[int]Curriculum{
	1: {Term: 1, Subjects: []Subject{
		{"Physics Lab", 1.5},
		{"Electrical Lab", 1},
		{"Mechanical Lab", 3},
		{"Physics Theory", 4},
		{"Electrical Theory", 4},
		{"Math Theory", 4},
	}},
	2: {Term: 2, Subjects: []Subject{
		{"Chemistry Lab", 1.5},
		{"C Lab", 2},
		{"Graphics Lab", 3},
		{"English Lab", 1},
		{"Chemistry Theory", 4},
		{"C Theory", 3},
		{"Math Theory", 4},
		{"English Theory", 2},
	}},
	3: {Term: 3, Subjects: []Subject{
		{"Computer Organization", 3},
		{"DSA", 3},
		{"Analog and Digital Electronics", 3},
		{"Mathematics", 2},
		{"Economics", 3},
		{"Computer Organization Lab", 2},
		{"DSA Lab", 2},
		{"Analog and Digital Electronics Lab", 2},
		{"Python Lab", 2},
	}},
	4: {Term: 4, Subjects: []Subject{
		{"Discrete Mathematics", 4},
		{"Computer Architecture", 3},
		{"Automata", 3},
		{"DAA", 3},
		{"Biology", 3},
		{"EVS", 1},
		{"DAA Lab", 2},
		{"Computer Architecture Lab", 2},
	}},
}

// CurriculumFor returns the fixed curriculum of term.
func CurriculumFor(term int) (Curriculum, bool) {
	cur, ok := curricula[term]
	if !ok {
		return Curriculum{}, false
	}
	return cur.clone(), true
}

// Curricula returns every fixed curriculum ordered by term.
func Curricula() []Curriculum {
	all := make([]Curriculum, 0, len(curricula))
	for _, cur := range curricula {
		all = append(all, cur.clone())
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Term < all[j].Term })
	return all
}

// FixedCumulative pools the scores of several fixed-curriculum terms into one credit-weighted average.
// Terms without a curriculum or with a mismatched number of scores are skipped.
// Terms are summed in ascending order so the result does not depend on map iteration.
func FixedCumulative(scores map[int][]float64) float64 {
	terms := make([]int, 0, len(scores))
	for term := range scores {
		terms = append(terms, term)
	}
	sort.Ints(terms)

	var points, credits float64
	for _, term := range terms {
		sc := scores[term]
		cur, ok := CurriculumFor(term)
		if !ok || len(sc) != len(cur.Subjects) {
			continue
		}
		for i, s := range cur.Subjects {
			points += sc[i] * s.Credits
			credits += s.Credits
		}
	}
	if credits <= 0 {
		return 0
	}
	return points / credits
}
