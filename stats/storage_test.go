package stats

import (
	"testing"
	"time"
)

func TestRecordAndSnapshot(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	defer storage.Shutdown()

	storage.RecordAnalysis(120)
	storage.RecordAnalysis(80)
	storage.RecordFetchError()
	storage.RecordAdvisory(true)
	storage.RecordAdvisory(false)
	storage.RecordChatMessage()

	current := storage.GetCurrentStats()
	if current.Analyses != 2 {
		t.Errorf("analyses = %d, want 2", current.Analyses)
	}
	if current.FetchErrors != 1 {
		t.Errorf("fetch errors = %d, want 1", current.FetchErrors)
	}
	if current.FallbackAdvisories != 1 || current.LLMAdvisories != 1 {
		t.Errorf("advisories = %d fallback / %d llm, want 1/1",
			current.FallbackAdvisories, current.LLMAdvisories)
	}
	if current.ChatMessages != 1 {
		t.Errorf("chat messages = %d, want 1", current.ChatMessages)
	}
	if got := current.AverageAnalysisMs(); got != 100 {
		t.Errorf("average analysis ms = %v, want 100", got)
	}
}

func TestAverageWithNoAnalyses(t *testing.T) {
	var m MonthlyStats
	if got := m.AverageAnalysisMs(); got != 0 {
		t.Errorf("average = %v, want 0", got)
	}
}

func TestPersistenceAcrossRestarts(t *testing.T) {
	dir := t.TempDir()

	storage, err := NewStorage(dir)
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	storage.RecordAnalysis(50)
	if err := storage.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	reloaded, err := NewStorage(dir)
	if err != nil {
		t.Fatalf("NewStorage after restart: %v", err)
	}
	defer reloaded.Shutdown()

	current := reloaded.GetCurrentStats()
	if current.Analyses != 1 {
		t.Errorf("analyses after reload = %d, want 1", current.Analyses)
	}
}

func TestGetAllMonthsSorted(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	defer storage.Shutdown()

	storage.mutex.Lock()
	storage.stats["2024-01"] = &MonthlyStats{Analyses: 1, LastUpdated: time.Now()}
	storage.stats["2024-06"] = &MonthlyStats{Analyses: 1, LastUpdated: time.Now()}
	storage.stats["2023-12"] = &MonthlyStats{Analyses: 1, LastUpdated: time.Now()}
	storage.mutex.Unlock()

	months := storage.GetAllMonths()
	for i := 1; i < len(months); i++ {
		if months[i] > months[i-1] {
			t.Errorf("months not sorted newest first: %v", months)
		}
	}
}

func TestGetMonthlyStats(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	defer storage.Shutdown()

	if _, ok := storage.GetMonthlyStats("1999-01"); ok {
		t.Error("unknown month should not be found")
	}

	storage.RecordAnalysis(10)
	month := time.Now().Format("2006-01")
	if got, ok := storage.GetMonthlyStats(month); !ok || got.Analyses != 1 {
		t.Errorf("GetMonthlyStats(%s) = %+v, %v", month, got, ok)
	}
}
