package service

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"

	"github.com/sirupsen/logrus"

	"github.com/jengzang/subscriber-insights-go/internal/cache"
	"github.com/jengzang/subscriber-insights-go/internal/models"
	"github.com/jengzang/subscriber-insights-go/internal/spatial"
)

//go:embed templates/leaflet_map.html
var mapTemplates embed.FS

var mapTemplate = template.Must(template.ParseFS(mapTemplates, "templates/leaflet_map.html"))

// Map defaults: the centre of Sri Lanka
const (
	DefaultLat   = 7.8731
	DefaultLon   = 80.7718
	DefaultZoom  = 7
	LocatedZoom  = 12
	userColor    = "#d33d29"
	unknownColor = "#9e9e9e"
	cellColor    = "#1565c0"
)

type mapMarker struct {
	Lat, Lon   float64
	Color      string
	Popup      string
	PopupWidth int
	Tooltip    string
}

type mapLegend struct {
	District string
	Region   string
}

type mapView struct {
	CenterLat float64
	CenterLon float64
	Zoom      int
	Markers   []mapMarker
	Legend    *mapLegend
	Bounds    *spatial.Bounds
}

// MapService renders the Leaflet location map of a subscriber
type MapService struct {
	profiles *ProfileService
	pages    *cache.Pages
	logger   logrus.FieldLogger
}

// NewMapService creates a new map service
func NewMapService(profiles *ProfileService, pages *cache.Pages, logger logrus.FieldLogger) *MapService {
	return &MapService{profiles: profiles, pages: pages, logger: logger.WithField("service", "map")}
}

// Render returns the map page of msisdn. A failed lookup renders the
// default view with an error marker and is not cached.
func (s *MapService) Render(ctx context.Context, msisdn string) (string, error) {
	if page, ok := s.pages.Get(msisdn); ok {
		return page, nil
	}

	p, err := s.profiles.Lookup(ctx, msisdn)
	if err != nil {
		if errors.Is(err, ErrDatasetUnavailable) {
			s.logger.WithError(err).Warn("Map lookup failed")
		}
		return s.errorMap(err.Error())
	}

	page, err := s.ProfileMap(p)
	if err != nil {
		return "", err
	}
	s.pages.Set(msisdn, page)
	return page, nil
}

// ProfileMap renders the map of a resolved profile
func (s *MapService) ProfileMap(p *models.Profile) (string, error) {
	view := mapView{
		CenterLat: DefaultLat,
		CenterLon: DefaultLon,
		Zoom:      DefaultZoom,
		Legend:    &mapLegend{District: p.District, Region: p.Region},
	}

	var points []spatial.Point
	if p.HasLocation() {
		view.CenterLat, view.CenterLon, view.Zoom = p.Lat.Value, p.Lon.Value, LocatedZoom
		popup, err := snippet("userPopup", p)
		if err != nil {
			return "", err
		}
		view.Markers = append(view.Markers, mapMarker{
			Lat: p.Lat.Value, Lon: p.Lon.Value, Color: userColor,
			Popup: popup, PopupWidth: 320,
			Tooltip: "User: " + p.MSISDN + " | " + p.District,
		})
		points = append(points, spatial.Point{Lat: p.Lat.Value, Lon: p.Lon.Value})
	} else {
		popup, err := snippet("notFoundPopup", p)
		if err != nil {
			return "", err
		}
		view.Markers = append(view.Markers, mapMarker{
			Lat: DefaultLat, Lon: DefaultLon, Color: unknownColor,
			Popup: popup, PopupWidth: 220,
			Tooltip: "Location not available",
		})
	}

	for _, c := range p.CommonCells {
		if !c.Lat.Valid || !c.Lon.Valid {
			continue
		}
		popup, err := snippet("cellPopup", c)
		if err != nil {
			return "", err
		}
		view.Markers = append(view.Markers, mapMarker{
			Lat: c.Lat.Value, Lon: c.Lon.Value, Color: cellColor,
			Popup: popup, PopupWidth: 240,
			Tooltip: c.CellCode,
		})
		points = append(points, spatial.Point{Lat: c.Lat.Value, Lon: c.Lon.Value})
	}

	if p.HasLocation() && len(points) > 1 {
		if b, ok := spatial.BoundingBox(points); ok && !b.Degenerate() {
			view.Bounds = &b
		}
	}
	return execute(view)
}

func (s *MapService) errorMap(msg string) (string, error) {
	popup, err := snippet("errorPopup", msg)
	if err != nil {
		return "", err
	}
	return execute(mapView{
		CenterLat: DefaultLat,
		CenterLon: DefaultLon,
		Zoom:      DefaultZoom,
		Markers: []mapMarker{{
			Lat: DefaultLat, Lon: DefaultLon, Color: userColor,
			Popup: popup, PopupWidth: 220,
		}},
	})
}

func snippet(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := mapTemplate.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func execute(view mapView) (string, error) {
	var buf bytes.Buffer
	if err := mapTemplate.ExecuteTemplate(&buf, "map", view); err != nil {
		return "", err
	}
	return buf.String(), nil
}
