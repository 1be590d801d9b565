package jira

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	waiderrors "qed42.com/waid/pkg/errors"
)

// Structured log field names. All of requiredFields must be present for a
// parse to succeed; there is no partial record.
const (
	FieldTitle         = "Title"
	FieldDescription   = "Description"
	FieldDate          = "Date"
	FieldDuration      = "Duration"
	FieldStartTime     = "Start time"
	FieldEfficiency    = "GenAI Efficiency"
	FieldUseCase       = "GenAI use case description"
	FieldSummary       = "Summary"
	defaultSummaryText = "Work Log Summary"
)

var requiredFields = []string{
	FieldTitle,
	FieldDescription,
	FieldDate,
	FieldDuration,
	FieldStartTime,
	FieldEfficiency,
	FieldUseCase,
}

// structuredDateLayout is the fixed DD/Mon/YY input format, e.g. "01/Jan/24".
const structuredDateLayout = "02/Jan/06"

// fieldHeaderRE matches a "Field name: value" header line.
var fieldHeaderRE = regexp.MustCompile(`^([A-Za-z][A-Za-z ]*):\s*(.*)`)

// parserState is the explicit state of the line-oriented parser.
type parserState int

const (
	// stateIdle scans for the next field header.
	stateIdle parserState = iota
	// stateInField has just consumed a single-line field.
	stateInField
	// stateInDescription accumulates continuation lines into Description.
	stateInDescription
)

// Parser converts the field-labeled worklog text format into a
// StructuredEntry.
//
// The grammar is line-oriented: a header line starts a field; while in
// Description, following non-blank non-header lines are accumulated
// newline-joined; a blank line always resets to the idle state. Unlabeled
// text that follows a blank line is therefore silently dropped. That quirk
// is part of the existing file format's observed behavior and is preserved
// deliberately.
type Parser struct{}

// NewParser creates a structured log parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads and parses the structured log at path.
func (p *Parser) ParseFile(path string) (*StructuredEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, waiderrors.Wrapf(err, "failed to read worklog file %q", path)
	}
	return p.Parse(string(data))
}

// Parse parses structured log content. The contract is all-or-nothing: any
// missing required field or malformed value fails the whole record.
func (p *Parser) Parse(content string) (*StructuredEntry, error) {
	fields := p.scan(content)
	return p.validate(fields)
}

// scan runs the line state machine and collects raw field values.
func (p *Parser) scan(content string) map[string]string {
	fields := make(map[string]string)
	var description []string

	state := stateIdle
	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)

		if stripped == "" {
			state = stateIdle
			continue
		}

		if m := fieldHeaderRE.FindStringSubmatch(line); m != nil {
			name := strings.TrimSpace(m[1])
			value := strings.TrimSpace(m[2])

			if name == FieldDescription {
				description = description[:0]
				if value != "" {
					description = append(description, value)
				}
				fields[FieldDescription] = ""
				state = stateInDescription
			} else {
				fields[name] = value
				state = stateInField
			}
			continue
		}

		if state == stateInDescription {
			description = append(description, stripped)
		}
		// In stateIdle or stateInField a non-header line is dropped.
	}

	if _, ok := fields[FieldDescription]; ok {
		fields[FieldDescription] = strings.Join(description, "\n")
	}
	return fields
}

// validate checks required fields and converts typed values.
func (p *Parser) validate(fields map[string]string) (*StructuredEntry, error) {
	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			return nil, waiderrors.NewParseError(name, "required field missing")
		}
	}

	date, err := time.Parse(structuredDateLayout, fields[FieldDate])
	if err != nil {
		return nil, waiderrors.NewParseErrorWithCause(FieldDate,
			"expected DD/Mon/YY (e.g. 01/Jan/24)", err)
	}

	hours, err := strconv.ParseFloat(fields[FieldDuration], 64)
	if err != nil {
		return nil, waiderrors.NewParseErrorWithCause(FieldDuration,
			"expected a decimal number of hours", err)
	}

	efficiency, err := strconv.ParseFloat(fields[FieldEfficiency], 64)
	if err != nil {
		return nil, waiderrors.NewParseErrorWithCause(FieldEfficiency,
			"expected a decimal ratio", err)
	}

	summary := fields[FieldSummary]
	if summary == "" {
		summary = defaultSummaryText
	}

	return &StructuredEntry{
		Title:       fields[FieldTitle],
		Description: fields[FieldDescription],
		Date:        date,
		StartDate:   date.Format("2006-01-02"),
		StartTime:   fields[FieldStartTime],
		// Truncation, not rounding: int() drops the fractional second.
		DurationSeconds:         int(hours * 3600),
		GenAIEfficiency:         efficiency,
		GenAIUseCaseDescription: fields[FieldUseCase],
		Summary:                 summary,
	}, nil
}
