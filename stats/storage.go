// Package stats persists usage counters for the analysis service,
// bucketed by month.
package stats

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// MonthlyStats holds the counters for one month.
type MonthlyStats struct {
	Analyses           int       `json:"analyses"`
	FetchErrors        int       `json:"fetch_errors"`
	LLMAdvisories      int       `json:"llm_advisories"`
	FallbackAdvisories int       `json:"fallback_advisories"`
	ChatMessages       int       `json:"chat_messages"`
	TotalAnalysisMs    float64   `json:"total_analysis_ms"`
	LastUpdated        time.Time `json:"last_updated"`
}

// AverageAnalysisMs returns the mean wall time of one analysis.
func (m MonthlyStats) AverageAnalysisMs() float64 {
	if m.Analyses == 0 {
		return 0
	}
	return m.TotalAnalysisMs / float64(m.Analyses)
}

// Storage handles persistent storage of statistics.
type Storage struct {
	mutex       sync.RWMutex
	stats       map[string]*MonthlyStats // key: "YYYY-MM"
	filePath    string
	lastWrite   time.Time
	writeBuffer chan struct{}
	done        chan struct{}
	closeOnce   sync.Once
}

// NewStorage creates a storage instance backed by dataDir/stats.json.
func NewStorage(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{
		stats:       make(map[string]*MonthlyStats),
		filePath:    filepath.Join(dataDir, "stats.json"),
		writeBuffer: make(chan struct{}, 1),
		done:        make(chan struct{}),
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	go s.backgroundWriter()

	return s, nil
}

// load reads statistics from file.
func (s *Storage) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	return json.Unmarshal(data, &s.stats)
}

// save writes statistics to file via an atomic rename.
func (s *Storage) save() error {
	s.mutex.RLock()
	data, err := json.Marshal(s.stats)
	s.mutex.RUnlock()

	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// backgroundWriter handles periodic writes to disk.
func (s *Storage) backgroundWriter() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.writeBuffer:
			s.save()
		case <-ticker.C:
			s.save()
		case <-s.done:
			return
		}
	}
}

func getCurrentMonth() string {
	return time.Now().Format("2006-01")
}

// requestWrite signals that a write to disk is needed.
func (s *Storage) requestWrite() {
	select {
	case s.writeBuffer <- struct{}{}:
		// Write requested
	default:
		// Buffer full, write already pending
	}
}

// update applies fn to the current month's counters and schedules a
// write when enough time has passed since the last one.
func (s *Storage) update(fn func(*MonthlyStats)) {
	month := getCurrentMonth()

	s.mutex.Lock()
	stats, exists := s.stats[month]
	if !exists {
		stats = &MonthlyStats{}
		s.stats[month] = stats
	}
	fn(stats)
	stats.LastUpdated = time.Now()
	needsWrite := time.Since(s.lastWrite) > time.Minute
	if needsWrite {
		s.lastWrite = time.Now()
	}
	s.mutex.Unlock()

	if needsWrite {
		s.requestWrite()
	}
}

// RecordAnalysis records one completed analysis and its wall time.
func (s *Storage) RecordAnalysis(elapsedMs float64) {
	s.update(func(m *MonthlyStats) {
		m.Analyses++
		m.TotalAnalysisMs += elapsedMs
	})
}

// RecordFetchError records one failed page fetch.
func (s *Storage) RecordFetchError() {
	s.update(func(m *MonthlyStats) {
		m.FetchErrors++
	})
}

// RecordAdvisory records one advisory generation. fallback tells
// whether the deterministic generator ran instead of the model.
func (s *Storage) RecordAdvisory(fallback bool) {
	s.update(func(m *MonthlyStats) {
		if fallback {
			m.FallbackAdvisories++
		} else {
			m.LLMAdvisories++
		}
	})
}

// RecordChatMessage records one chat exchange.
func (s *Storage) RecordChatMessage() {
	s.update(func(m *MonthlyStats) {
		m.ChatMessages++
	})
}

// GetCurrentStats returns statistics for the current month.
func (s *Storage) GetCurrentStats() MonthlyStats {
	month := getCurrentMonth()

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if stats, exists := s.stats[month]; exists {
		return *stats
	}
	return MonthlyStats{}
}

// GetMonthlyStats returns statistics for a specific month.
func (s *Storage) GetMonthlyStats(yearMonth string) (MonthlyStats, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if stats, exists := s.stats[yearMonth]; exists {
		return *stats, true
	}
	return MonthlyStats{}, false
}

// GetAllMonths returns all months with statistics, newest first.
func (s *Storage) GetAllMonths() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	months := make([]string, 0, len(s.stats))
	for month := range s.stats {
		months = append(months, month)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	return months
}

// Cleanup keeps only the current and previous month.
func (s *Storage) Cleanup() {
	currentTime := time.Now()
	currentMonth := currentTime.Format("2006-01")
	previousMonth := currentTime.AddDate(0, -1, 0).Format("2006-01")

	s.mutex.Lock()
	for key := range s.stats {
		if key != currentMonth && key != previousMonth {
			delete(s.stats, key)
		}
	}
	s.mutex.Unlock()

	s.requestWrite()

	log.Printf("Retained statistics for months: %s, %s", currentMonth, previousMonth)
}

// Shutdown stops the background writer and flushes to disk.
func (s *Storage) Shutdown() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	return s.save()
}
