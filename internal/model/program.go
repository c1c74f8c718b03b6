// Package model holds the entities exchanged between the HTTP, service and
// repository layers.
package model

import "time"

// Program is an institutional program. The id is assigned by the database.
type Program struct {
	ID              int64      `json:"id"`
	ProgramName     string     `json:"programName" validate:"required,min=1,max=255"`
	InstitutionID   int64      `json:"institutionId" validate:"required,gt=0"`
	StartDate       time.Time  `json:"startDate" validate:"required"`
	EndDate         time.Time  `json:"endDate" validate:"required"`
	DurationInDays  int        `json:"durationInDays" validate:"gte=0"`
	ProgramImageURL string     `json:"programImageUrl,omitempty" validate:"omitempty,url"`
	Locale          string     `json:"locale,omitempty" validate:"omitempty,max=16"`
	Documents       []Document `json:"documents"`
	CreatedOn       time.Time  `json:"createdOn"`
	LastModifiedOn  time.Time  `json:"lastModifiedOn"`
}

// Document is a stored reference to an uploaded file. It is created at
// upload time and never mutated afterwards.
type Document struct {
	ID                     int64     `json:"id"`
	Name                   string    `json:"name"`
	Path                   string    `json:"path"`
	ContentType            string    `json:"contentType"`
	Size                   int64     `json:"size"`
	InstitutionalProgramID int64     `json:"institutionalProgramId"`
	CreatedOn              time.Time `json:"createdOn"`
}

// DocumentPaths returns the storage paths of docs, in order.
func DocumentPaths(docs []Document) []string {
	paths := make([]string, 0, len(docs))
	for _, doc := range docs {
		paths = append(paths, doc.Path)
	}
	return paths
}

// Mentor is read-only at this layer.
type Mentor struct {
	ID                     int64  `json:"id"`
	FirstName              string `json:"firstName"`
	LastName               string `json:"lastName"`
	Email                  string `json:"email"`
	InstitutionalProgramID int64  `json:"institutionalProgramId"`
}

// Mentee is read-only at this layer.
type Mentee struct {
	ID                     int64  `json:"id"`
	FirstName              string `json:"firstName"`
	LastName               string `json:"lastName"`
	Email                  string `json:"email"`
	InstitutionalProgramID int64  `json:"institutionalProgramId"`
}
