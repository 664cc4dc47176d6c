package Controllers

import (
	"bufio"
	"encoding/json"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LogEntry mirrors what the request logging middleware writes to
// logs/requests.log, one JSON object per line.
type LogEntry struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	Latency   time.Duration `json:"latency"`
	IP        string        `json:"ip"`
	UserAgent string        `json:"user_agent"`
	Error     string        `json:"error,omitempty"`
	UserID    interface{}   `json:"user_id,omitempty"`
	Username  string        `json:"username,omitempty"`
}

const requestLogPath = "logs/requests.log"

func readLogsFromFile(filePath string, dateFrom, dateTo time.Time) ([]LogEntry, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []LogEntry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	var logs []LogEntry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		if entry.Timestamp.Before(dateFrom) || entry.Timestamp.After(dateTo) {
			continue
		}
		logs = append(logs, entry)
	}
	return logs, scanner.Err()
}

func parseLogWindow(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	dateFrom := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dateTo := now

	if v := c.Query("date_from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return dateFrom, dateTo, err
		}
		dateFrom = parsed
	}
	if v := c.Query("date_to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return dateFrom, dateTo, err
		}
		dateTo = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, 999999999, parsed.Location())
	}
	return dateFrom, dateTo, nil
}

// GetLogs returns request logs with date and path filtering, newest first
func GetLogs(c *fiber.Ctx) error {
	dateFrom, dateTo, err := parseLogWindow(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD"})
	}

	logs, err := readLogsFromFile(requestLogPath, dateFrom, dateTo)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read logs"})
	}

	if pathFilter := c.Query("path"); pathFilter != "" {
		filtered := logs[:0]
		for _, entry := range logs {
			if strings.Contains(entry.Path, pathFilter) {
				filtered = append(filtered, entry)
			}
		}
		logs = filtered
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})

	limit, _ := strconv.Atoi(c.Query("limit", "200"))
	if limit < 1 || limit > 2000 {
		limit = 200
	}
	if len(logs) > limit {
		logs = logs[:limit]
	}

	return c.JSON(fiber.Map{
		"logs":      logs,
		"total":     len(logs),
		"date_from": dateFrom,
		"date_to":   dateTo,
	})
}

// GetLogStats aggregates request counts, error rate and latency per path
func GetLogStats(c *fiber.Ctx) error {
	dateFrom, dateTo, err := parseLogWindow(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD"})
	}

	logs, err := readLogsFromFile(requestLogPath, dateFrom, dateTo)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read logs"})
	}

	type pathStats struct {
		Path         string  `json:"path"`
		Count        int     `json:"count"`
		Errors       int     `json:"errors"`
		AvgLatencyMs float64 `json:"avg_latency_ms"`
	}

	totals := map[string]*pathStats{}
	for _, entry := range logs {
		key := entry.Method + " " + entry.Path
		stats, ok := totals[key]
		if !ok {
			stats = &pathStats{Path: key}
			totals[key] = stats
		}
		stats.Count++
		if entry.Status >= 400 {
			stats.Errors++
		}
		stats.AvgLatencyMs += float64(entry.Latency.Milliseconds())
	}

	result := make([]pathStats, 0, len(totals))
	for _, stats := range totals {
		if stats.Count > 0 {
			stats.AvgLatencyMs /= float64(stats.Count)
		}
		result = append(result, *stats)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	return c.JSON(fiber.Map{
		"paths":          result,
		"total_requests": len(logs),
		"date_from":      dateFrom,
		"date_to":        dateTo,
	})
}
