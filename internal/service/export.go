package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/dayroute/internal/domain"
)

type ExportFormat string

const (
	ExportText ExportFormat = "text"
	ExportJSON ExportFormat = "json"
)

var ErrEmptyItinerary = errors.New("itinerary is empty")

// routeSeparator joins stop titles in the text export.
const routeSeparator = " → "

type exportedStop struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Time        domain.Clock    `json:"time"`
	PlannedTime *domain.Clock   `json:"plannedTime,omitempty"`
	Pin         *domain.Clock   `json:"pin,omitempty"`
	Duration    int             `json:"duration"`
	TravelTime  int             `json:"travelTime"`
	Location    string          `json:"location"`
	Category    domain.Category `json:"category"`
	AddedBy     string          `json:"addedBy,omitempty"`
}

type exportedItinerary struct {
	UserID     string         `json:"userId"`
	Route      string         `json:"route"`
	Events     []exportedStop `json:"events"`
	TotalTime  int            `json:"totalTime"`
	TravelTime int            `json:"travelTime"`
}

func (s *plannerService) Export(ctx context.Context, userID string, format ExportFormat) (string, error) {
	items, err := s.itinerary.Load(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", ErrEmptyItinerary
	}

	switch format {
	case ExportText, "":
		return RouteLine(items), nil
	case ExportJSON:
		doc := exportedItinerary{UserID: userID, Route: RouteLine(items)}
		for _, it := range items {
			doc.Events = append(doc.Events, exportedStop{
				ID:          it.Event.ID,
				Title:       it.Event.Title,
				Time:        it.Event.Time,
				PlannedTime: it.PlannedTime,
				Pin:         it.Pin,
				Duration:    it.Event.Duration,
				TravelTime:  it.TravelTime,
				Location:    it.Event.Location,
				Category:    it.Event.Category,
				AddedBy:     it.AddedBy,
			})
			doc.TotalTime += it.Event.Duration + it.TravelTime
			doc.TravelTime += it.TravelTime
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding itinerary: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}

// RouteLine renders the stops as "A → B → C".
func RouteLine(items []domain.ItineraryItem) string {
	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = it.Event.Title
	}
	return strings.Join(titles, routeSeparator)
}
