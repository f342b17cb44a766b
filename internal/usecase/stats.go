package usecase

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/gitmetrics/internal/domain"
)

const (
	// DefaultTopReposLimit is the number of repositories ranked when no limit is given.
	DefaultTopReposLimit = 5
	// MaxActivityMonths is how many of the most recent months MonthlyActivity keeps.
	MaxActivityMonths = 12
	// MonthLabelLayout formats activity bucket keys, e.g. "Mar 2024".
	MonthLabelLayout = "Jan 2006"
)

// LanguageHistogram counts repositories per language, most used first.
// Languages with equal counts keep the order in which they first appeared.
func LanguageHistogram(repos []domain.Repository) domain.LanguageStats {
	counts := make(map[string]int)
	var order []string
	for _, repo := range repos {
		if repo.Language == "" {
			continue
		}
		if _, seen := counts[repo.Language]; !seen {
			order = append(order, repo.Language)
		}
		counts[repo.Language]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	result := domain.LanguageStats{
		Labels: make([]string, 0, len(order)),
		Data:   make([]int, 0, len(order)),
	}
	for _, lang := range order {
		result.Labels = append(result.Labels, lang)
		result.Data = append(result.Data, counts[lang])
	}
	return result
}

// SumTotals adds up stars and forks over every repository, forks included.
func SumTotals(repos []domain.Repository) domain.TotalStats {
	var totals domain.TotalStats
	for _, repo := range repos {
		totals.Stars += repo.StargazersCount
		totals.Forks += repo.ForksCount
	}
	return totals
}

// TopRepos ranks non-fork repositories by stars plus forks and returns at most limit of them.
// Equal scores keep their input order. The input slice is not modified.
func TopRepos(repos []domain.Repository, limit int) []domain.Repository {
	if limit <= 0 {
		return []domain.Repository{}
	}

	ranked := make([]domain.Repository, 0, len(repos))
	for _, repo := range repos {
		if !repo.Fork {
			ranked = append(ranked, repo)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score() > ranked[j].Score()
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// MonthlyActivity buckets repositories by creation month in the local time zone.
func MonthlyActivity(repos []domain.Repository) domain.ActivityBuckets {
	return MonthlyActivityIn(repos, time.Local)
}

// MonthlyActivityIn buckets repositories by the calendar month of CreatedAt in loc,
// sorted chronologically and limited to the MaxActivityMonths most recent months.
func MonthlyActivityIn(repos []domain.Repository, loc *time.Location) domain.ActivityBuckets {
	if loc == nil {
		loc = time.Local
	}

	type bucket struct {
		label string
		count int
		month time.Time
	}
	byLabel := make(map[string]*bucket)
	buckets := make([]*bucket, 0)
	for _, repo := range repos {
		created := repo.CreatedAt.In(loc)
		label := created.Format(MonthLabelLayout)
		b, ok := byLabel[label]
		if !ok {
			b = &bucket{label: label, month: time.Date(created.Year(), created.Month(), 1, 0, 0, 0, 0, loc)}
			byLabel[label] = b
			buckets = append(buckets, b)
		}
		b.count++
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].month.Before(buckets[j].month)
	})

	if len(buckets) > MaxActivityMonths {
		buckets = buckets[len(buckets)-MaxActivityMonths:]
	}

	result := domain.ActivityBuckets{
		Labels: make([]string, 0, len(buckets)),
		Data:   make([]int, 0, len(buckets)),
	}
	for _, b := range buckets {
		result.Labels = append(result.Labels, b.label)
		result.Data = append(result.Data, b.count)
	}
	return result
}

// ParseMonthLabel turns a "Jan 2006" bucket label back into the first day of that month in loc.
func ParseMonthLabel(label string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(MonthLabelLayout, label, loc)
}

// PopularityOf summarizes the star counts of the user's own (non-fork) repositories.
func PopularityOf(repos []domain.Repository) domain.Popularity {
	var starData stats.Float64Data
	maxStars := 0
	for _, repo := range repos {
		if repo.Fork {
			continue
		}
		starData = append(starData, float64(repo.StargazersCount))
		if repo.StargazersCount > maxStars {
			maxStars = repo.StargazersCount
		}
	}
	if starData.Len() == 0 {
		return domain.Popularity{}
	}

	// Both only fail on empty input, which is handled above.
	mean, _ := starData.Mean()
	median, _ := starData.Median()
	return domain.Popularity{
		MeanStars:   mean,
		MedianStars: median,
		MaxStars:    maxStars,
	}
}


