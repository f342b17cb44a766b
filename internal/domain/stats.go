// Package domain contains the core data structures and domain logic for the application.
package domain

// LanguageStats is the language histogram of a repository set.
// Labels and Data are parallel: Data[i] repositories are written in Labels[i].
type LanguageStats struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// Empty reports whether no repository had a language.
func (s LanguageStats) Empty() bool { return len(s.Labels) == 0 }

// TotalStats holds the summed stars and forks over every repository, forks included.
type TotalStats struct {
	Stars int `json:"stars"`
	Forks int `json:"forks"`
}

// ActivityBuckets counts repositories created per calendar month.
// Labels are "Jan 2006" formatted and in chronological order.
type ActivityBuckets struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// Empty reports whether no repository fell into any month.
func (b ActivityBuckets) Empty() bool { return len(b.Labels) == 0 }

// Popularity summarizes how stars are spread over a user's own repositories.
type Popularity struct {
	MeanStars   float64 `json:"mean_stars"`
	MedianStars float64 `json:"median_stars"`
	MaxStars    int     `json:"max_stars"`
}

// CompleteProfile is the combined result of a single profile query.
// It is the core domain entity of this application.
type CompleteProfile struct {
	Profile       Profile         `json:"profile"`
	Repos         []Repository    `json:"repos"`
	LanguageStats LanguageStats   `json:"languageStats"`
	TopRepos      []Repository    `json:"topRepos"`
	TotalStats    TotalStats      `json:"totalStats"`
	Activity      ActivityBuckets `json:"activity"`
	Popularity    Popularity      `json:"popularity"`
}
