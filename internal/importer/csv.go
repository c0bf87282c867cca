// Package importer implements the CSV import pipeline: header mapping,
// row parsing, duplicate detection, and merge-or-insert against storage.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/rolotools/rolo/internal/types"
)

// column identifies which contact field a CSV header maps to
type column int

const (
	colUnknown column = iota
	colName
	colFirstName
	colLastName
	colEmail
	colPhone
	colCompany
	colRole
	colLocation
	colLinkedIn
	colURL
	colNotes
)

// headerAliases maps normalized header names to contact fields. Headers
// are matched after lowercasing and stripping spaces, underscores, and
// dashes, so "E-mail Address" and "email_address" both land on colEmail.
var headerAliases = map[string]column{
	"name":         colName,
	"fullname":     colName,
	"contactname":  colName,
	"firstname":    colFirstName,
	"givenname":    colFirstName,
	"lastname":     colLastName,
	"surname":      colLastName,
	"familyname":   colLastName,
	"email":        colEmail,
	"emailaddress": colEmail,
	"email1value":  colEmail,
	"phone":        colPhone,
	"phonenumber":  colPhone,
	"phone1value":  colPhone,
	"mobile":       colPhone,
	"cell":         colPhone,
	"telephone":    colPhone,
	"company":      colCompany,
	"organization": colCompany,
	"organisation": colCompany,
	"employer":     colCompany,
	"title":        colRole,
	"jobtitle":     colRole,
	"role":         colRole,
	"position":     colRole,
	"location":     colLocation,
	"address":      colLocation,
	"city":         colLocation,
	"region":       colLocation,
	"linkedin":     colLinkedIn,
	"linkedinurl":  colLinkedIn,
	"profileurl":   colLinkedIn,
	"url":          colURL,
	"website":      colURL,
	"notes":        colNotes,
	"note":         colNotes,
	"comments":     colNotes,
}

// ParsedFile is the result of reading a CSV export
type ParsedFile struct {
	Headers []string
	Rows    [][]string

	// Parsed holds one PartialContact per row, produced by the header
	// mapping heuristics. Entries may be sparse when the mapping could
	// not place a column.
	Parsed []*types.PartialContact

	// Skipped counts rows that could not be read at all
	Skipped int
}

// ParseCSV reads a CSV export and maps its rows to partial contacts.
// The first record is treated as the header row. Malformed rows are
// skipped and counted, never fatal.
func ParseCSV(r io.Reader) (*ParsedFile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	cols := make([]column, len(headers))
	for i, h := range headers {
		cols[i] = classifyHeader(h)
	}

	result := &ParsedFile{Headers: headers}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			continue
		}
		result.Rows = append(result.Rows, record)
		result.Parsed = append(result.Parsed, mapRow(headers, cols, record))
	}
	return result, nil
}

// classifyHeader resolves a raw CSV header to a contact field
func classifyHeader(header string) column {
	key := strings.ToLower(strings.TrimSpace(header))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	if col, ok := headerAliases[key]; ok {
		return col
	}
	// Export formats often suffix repeated columns ("Email 2", "Phone 3")
	trimmed := strings.TrimRight(key, "0123456789")
	if col, ok := headerAliases[trimmed]; ok {
		return col
	}
	return colUnknown
}

// mapRow builds a PartialContact from one CSV record. Unmapped columns
// are folded into the notes as "Header: value" lines so no data is lost.
func mapRow(headers []string, cols []column, record []string) *types.PartialContact {
	p := &types.PartialContact{}
	info := types.ContactInfo{}
	var firstName, lastName string
	var noteLines []string

	for i, value := range record {
		value = strings.TrimSpace(value)
		if value == "" || i >= len(cols) {
			continue
		}
		switch cols[i] {
		case colName:
			setIfEmpty(&p.Name, value)
		case colFirstName:
			if !types.IsPlaceholder(value) {
				firstName = value
			}
		case colLastName:
			if !types.IsPlaceholder(value) {
				lastName = value
			}
		case colEmail:
			info.Emails = append(info.Emails, value)
		case colPhone:
			info.Phones = append(info.Phones, value)
		case colCompany:
			setIfEmpty(&p.Company, value)
		case colRole:
			setIfEmpty(&p.Role, value)
		case colLocation:
			setIfEmpty(&p.Location, value)
		case colLinkedIn:
			info.LinkedInURLs = append(info.LinkedInURLs, value)
		case colURL:
			info.OtherURLs = append(info.OtherURLs, types.OtherURL{Platform: "web", URL: value})
		case colNotes:
			noteLines = append(noteLines, value)
		default:
			noteLines = append(noteLines, fmt.Sprintf("%s: %s", strings.TrimSpace(headers[i]), value))
		}
	}

	if p.Name == nil {
		full := strings.TrimSpace(firstName + " " + lastName)
		if !types.IsPlaceholder(full) {
			p.Name = types.StringPtr(full)
		}
	}
	if info.Emails != nil || info.Phones != nil || info.LinkedInURLs != nil || info.OtherURLs != nil {
		p.ContactInfo = &info
	}
	if len(noteLines) > 0 {
		p.Notes = types.StringPtr(strings.Join(noteLines, "\n"))
	}
	return p
}

// setIfEmpty sets a scalar field once, dropping placeholder values so
// they never reach the merge engine
func setIfEmpty(dest **string, value string) {
	if *dest == nil && !types.IsPlaceholder(value) {
		*dest = types.StringPtr(value)
	}
}
