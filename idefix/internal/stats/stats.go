// internal/stats/stats.go
package stats

import (
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// MessageStats tracks statistics about processed ASTERIX blocks, keyed
// by category id rather than a fixed set of constants, since the
// catalogue driving decoding is no longer compiled in.
type MessageStats struct {
	TotalMessages int
	ByCategory    map[uint8]int
	StartTime     time.Time
}

// NewMessageStats creates a new MessageStats struct
func NewMessageStats() *MessageStats {
	return &MessageStats{
		ByCategory: make(map[uint8]int),
		StartTime:  time.Now(),
	}
}

// IncrementCategory increments the counter for the specified category
func (s *MessageStats) IncrementCategory(cat uint8) {
	s.TotalMessages++
	s.ByCategory[cat]++
}

// LogStats logs current statistics
func (s *MessageStats) LogStats(logger *slog.Logger, final bool) {
	if s.TotalMessages == 0 {
		return
	}

	duration := time.Since(s.StartTime)

	var rate float64
	if duration.Seconds() > 0 {
		rate = float64(s.TotalMessages) / duration.Seconds()
	}

	cats := make([]uint8, 0, len(s.ByCategory))
	for c := range s.ByCategory {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	args := []any{
		"duration", duration.Round(time.Second).String(),
		"total_messages", s.TotalMessages,
	}
	for _, c := range cats {
		count := s.ByCategory[c]
		args = append(args, fmt.Sprintf("cat%03d", c), count)
		if final {
			pct := float64(count) / float64(s.TotalMessages) * 100
			args = append(args, fmt.Sprintf("cat%03d_pct", c), fmt.Sprintf("%.1f%%", pct))
		}
	}
	if final {
		args = append(args, "avg_rate", fmt.Sprintf("%.1f msg/s", rate))
		logger.Info("Final Statistics", args...)
	} else {
		args = append(args, "rate", fmt.Sprintf("%.1f msg/s", rate))
		logger.Info("Statistics", args...)
	}
}
