// Package tasks holds the pure task partitioning logic shared by the
// dashboard view: status filtering and grouping into due-date buckets.
package tasks

import (
	"time"

	"zentask/internal/models"
)

// Bucket is a due-date grouping of tasks
type Bucket int

const (
	Today Bucket = iota
	Tomorrow
	Later
)

// Buckets lists all buckets in display order
var Buckets = []Bucket{Today, Tomorrow, Later}

func (b Bucket) String() string {
	switch b {
	case Today:
		return "Today"
	case Tomorrow:
		return "Tomorrow"
	default:
		return "Later"
	}
}

// Groups holds tasks partitioned by due-date bucket
type Groups struct {
	Today    []models.Task
	Tomorrow []models.Task
	Later    []models.Task
}

// Get returns the tasks in the given bucket
func (g Groups) Get(b Bucket) []models.Task {
	switch b {
	case Today:
		return g.Today
	case Tomorrow:
		return g.Tomorrow
	default:
		return g.Later
	}
}

// GroupByDue partitions tasks relative to now's calendar day. A task with
// no due date, or due today, lands in Today; due exactly tomorrow lands in
// Tomorrow; everything else, past dates included, lands in Later.
func GroupByDue(list []models.Task, now time.Time) Groups {
	todayStr := models.FormatDate(now)
	tomorrowStr := models.FormatDate(now.AddDate(0, 0, 1))

	var g Groups
	for _, t := range list {
		due := t.DueDate
		if due == "" {
			due = todayStr
		}
		switch due {
		case todayStr:
			g.Today = append(g.Today, t)
		case tomorrowStr:
			g.Tomorrow = append(g.Tomorrow, t)
		default:
			g.Later = append(g.Later, t)
		}
	}
	return g
}

// FilterByStatus returns the tasks matching status
func FilterByStatus(list []models.Task, status models.Status) []models.Task {
	var out []models.Task
	for _, t := range list {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// CountByStatus returns how many tasks have the given status
func CountByStatus(list []models.Task, status models.Status) int {
	n := 0
	for _, t := range list {
		if t.Status == status {
			n++
		}
	}
	return n
}
