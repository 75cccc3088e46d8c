package sourcemap

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jsprint/jsprint/internal/helpers"
	"github.com/jsprint/jsprint/internal/logger"
)

// Record is what the printer emits for every token that carries a source
// location. Original positions stay as byte offsets until a source map is
// actually built, since most prints never need one.
type Record struct {
	GeneratedLine   int32 // 0-based
	GeneratedColumn int32 // 0-based count of UTF-16 code units
	OriginalLoc     logger.Loc
	Name            string // optional
}

type Mapping struct {
	GeneratedLine   int32 // 0-based
	GeneratedColumn int32 // 0-based count of UTF-16 code units

	SourceIndex    int32 // 0-based
	OriginalLine   int32 // 0-based
	OriginalColumn int32 // 0-based count of UTF-16 code units
	OriginalName   int32 // 0-based, or -1 if there is no name
}

type SourceMap struct {
	Sources        []string
	SourcesContent []string
	Mappings       []Mapping
	Names          []string
}

func (sm *SourceMap) Find(line int32, column int32) *Mapping {
	mappings := sm.Mappings

	// Binary search
	count := len(mappings)
	index := 0
	for count > 0 {
		step := count / 2
		i := index + step
		mapping := mappings[i]
		if mapping.GeneratedLine < line || (mapping.GeneratedLine == line && mapping.GeneratedColumn <= column) {
			index = i + 1
			count -= step + 1
		} else {
			count = step
		}
	}

	// Only a mapping on the same line counts as a match
	if index > 0 {
		mapping := &mappings[index-1]
		if mapping.GeneratedLine == line {
			return mapping
		}
	}
	return nil
}

var base64Digits = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/")

// A single base 64 digit can contain 6 bits of data. For the base 64 variable
// length quantities used in source maps, the first bit is the sign, the next
// four bits are the actual value, and the 6th bit is the continuation bit.
//
//	Continuation
//	|    Sign
//	|    |
//	V    V
//	101011
func EncodeVLQ(encoded []byte, value int) []byte {
	var vlq int
	if value < 0 {
		vlq = ((-value) << 1) | 1
	} else {
		vlq = value << 1
	}

	if (vlq >> 5) == 0 {
		return append(encoded, base64Digits[vlq&31])
	}

	for {
		digit := vlq & 31
		vlq >>= 5
		if vlq != 0 {
			digit |= 32
		}
		encoded = append(encoded, base64Digits[digit])
		if vlq == 0 {
			break
		}
	}
	return encoded
}

// DecodeVLQ reads one value starting at "start" and returns it along with the
// offset just past it. The boolean is false if the input ends early or holds
// a character that isn't a base 64 digit.
func DecodeVLQ(encoded []byte, start int) (int, int, bool) {
	shift := 0
	vlq := 0

	for {
		if start >= len(encoded) {
			return 0, start, false
		}
		index := bytes.IndexByte(base64Digits, encoded[start])
		if index < 0 {
			return 0, start, false
		}

		vlq |= (index & 31) << shift
		start++
		shift += 5

		if (index & 32) == 0 {
			break
		}
	}

	value := vlq >> 1
	if (vlq & 1) != 0 {
		value = -value
	}
	return value, start, true
}

type LineOffsetTable struct {
	// Source map columns are counts of UTF-16 code units. This table speeds up
	// the conversion from byte offsets for lines that contain non-ASCII text.
	// ASCII-only lines are 1:1 and don't get a table.
	columnsForNonASCII        []int32
	byteOffsetToFirstNonASCII int32

	byteOffsetToStartOfLine int32
}

func GenerateLineOffsetTables(contents string, approximateLineCount int32) []LineOffsetTable {
	var columnsForNonASCII []int32
	byteOffsetToFirstNonASCII := int32(0)
	lineByteOffset := 0
	columnByteOffset := 0
	column := int32(0)

	lineOffsetTables := make([]LineOffsetTable, 0, approximateLineCount)

	for i, c := range contents {
		if column == 0 {
			lineByteOffset = i
		}

		if c > 0x7F && columnsForNonASCII == nil {
			columnByteOffset = i - lineByteOffset
			byteOffsetToFirstNonASCII = int32(columnByteOffset)
			columnsForNonASCII = []int32{}
		}

		if columnsForNonASCII != nil {
			for lineBytesSoFar := i - lineByteOffset; columnByteOffset <= lineBytesSoFar; columnByteOffset++ {
				columnsForNonASCII = append(columnsForNonASCII, column)
			}
		}

		switch c {
		case '\r', '\n', '\u2028', '\u2029':
			// "\r\n" is a single line break
			if c == '\r' && i+1 < len(contents) && contents[i+1] == '\n' {
				column++
				continue
			}

			lineOffsetTables = append(lineOffsetTables, LineOffsetTable{
				byteOffsetToStartOfLine:   int32(lineByteOffset),
				byteOffsetToFirstNonASCII: byteOffsetToFirstNonASCII,
				columnsForNonASCII:        columnsForNonASCII,
			})
			columnByteOffset = 0
			byteOffsetToFirstNonASCII = 0
			columnsForNonASCII = nil
			column = 0

		default:
			if c <= 0xFFFF {
				column++
			} else {
				column += 2
			}
		}
	}

	if column == 0 {
		lineByteOffset = len(contents)
	}

	if columnsForNonASCII != nil {
		for lineBytesSoFar := len(contents) - lineByteOffset; columnByteOffset <= lineBytesSoFar; columnByteOffset++ {
			columnsForNonASCII = append(columnsForNonASCII, column)
		}
	}

	lineOffsetTables = append(lineOffsetTables, LineOffsetTable{
		byteOffsetToStartOfLine:   int32(lineByteOffset),
		byteOffsetToFirstNonASCII: byteOffsetToFirstNonASCII,
		columnsForNonASCII:        columnsForNonASCII,
	})
	return lineOffsetTables
}

// OriginalLineAndColumn converts a byte offset into a 0-based line and a
// 0-based UTF-16 column using tables from "GenerateLineOffsetTables".
func OriginalLineAndColumn(tables []LineOffsetTable, loc logger.Loc) (int32, int32) {
	count := len(tables)
	line := 0
	for count > 0 {
		step := count / 2
		i := line + step
		if tables[i].byteOffsetToStartOfLine <= loc.Start {
			line = i + 1
			count = count - step - 1
		} else {
			count = step
		}
	}
	line--
	if line < 0 {
		return 0, 0
	}

	table := &tables[line]
	column := loc.Start - table.byteOffsetToStartOfLine
	if table.columnsForNonASCII != nil && column >= table.byteOffsetToFirstNonASCII {
		if i := column - table.byteOffsetToFirstNonASCII; int(i) < len(table.columnsForNonASCII) {
			column = table.columnsForNonASCII[i]
		}
	}
	return int32(line), column
}

// Tracker turns printer output offsets into generated line and column
// numbers. It scans only the text appended since the previous call, so the
// total cost is linear in the size of the output.
type Tracker struct {
	records             []Record
	prevOriginalLoc     logger.Loc
	prevOriginalName    string
	prevGeneratedLen    int
	lastGeneratedUpdate int
	generatedLine       int32
	generatedColumn     int32
}

func MakeTracker() Tracker {
	return Tracker{prevOriginalLoc: logger.Loc{Start: -1}}
}

func (t *Tracker) AddRecord(originalLoc logger.Loc, originalName string, output []byte) {
	// Avoid generating duplicate records
	if originalLoc == t.prevOriginalLoc {
		if t.prevGeneratedLen == len(output) {
			// An identifier is mapped again at the same position with its name
			if originalName != "" && t.prevOriginalName == "" {
				t.records[len(t.records)-1].Name = originalName
				t.prevOriginalName = originalName
			}
			return
		}
		if t.prevOriginalName == originalName {
			return
		}
	}

	t.prevOriginalLoc = originalLoc
	t.prevGeneratedLen = len(output)
	t.prevOriginalName = originalName

	t.updateGeneratedLineAndColumn(output)
	t.records = append(t.records, Record{
		GeneratedLine:   t.generatedLine,
		GeneratedColumn: t.generatedColumn,
		OriginalLoc:     originalLoc,
		Name:            originalName,
	})
}

func (t *Tracker) Records() []Record {
	return t.records
}

func (t *Tracker) updateGeneratedLineAndColumn(output []byte) {
	for i, c := range string(output[t.lastGeneratedUpdate:]) {
		switch c {
		case '\r', '\n', '\u2028', '\u2029':
			if c == '\r' {
				newlineCheck := t.lastGeneratedUpdate + i + 1
				if newlineCheck < len(output) && output[newlineCheck] == '\n' {
					continue
				}
			}
			t.generatedLine++
			t.generatedColumn = 0

		default:
			if c <= 0xFFFF {
				t.generatedColumn++
			} else {
				t.generatedColumn += 2
			}
		}
	}

	t.lastGeneratedUpdate = len(output)
}

// Build resolves printer records against the original source. Records must
// be in generated order, which is the order the printer emits them in.
func Build(source logger.Source, records []Record, includeSourcesContent bool) SourceMap {
	tables := GenerateLineOffsetTables(source.Contents, int32(strings.Count(source.Contents, "\n")+1))
	sm := SourceMap{
		Sources:  []string{source.PrettyPath},
		Mappings: make([]Mapping, 0, len(records)),
	}
	if includeSourcesContent {
		sm.SourcesContent = []string{source.Contents}
	}

	namesMap := make(map[string]int32)
	for _, record := range records {
		line, column := OriginalLineAndColumn(tables, record.OriginalLoc)
		mapping := Mapping{
			GeneratedLine:   record.GeneratedLine,
			GeneratedColumn: record.GeneratedColumn,
			OriginalLine:    line,
			OriginalColumn:  column,
			OriginalName:    -1,
		}
		if record.Name != "" {
			index, ok := namesMap[record.Name]
			if !ok {
				index = int32(len(sm.Names))
				sm.Names = append(sm.Names, record.Name)
				namesMap[record.Name] = index
			}
			mapping.OriginalName = index
		}
		sm.Mappings = append(sm.Mappings, mapping)
	}
	return sm
}

// EncodeMappings produces the "mappings" field. Every value is relative to
// the previous mapping, and the generated column resets on each new line.
func (sm *SourceMap) EncodeMappings() []byte {
	var buffer []byte
	var prev Mapping
	prevLine := int32(0)
	prevColumn := int32(0)
	hasMappingOnLine := false

	for _, mapping := range sm.Mappings {
		for prevLine < mapping.GeneratedLine {
			buffer = append(buffer, ';')
			prevLine++
			prevColumn = 0
			hasMappingOnLine = false
		}
		if hasMappingOnLine {
			buffer = append(buffer, ',')
		}

		buffer = EncodeVLQ(buffer, int(mapping.GeneratedColumn-prevColumn))
		buffer = EncodeVLQ(buffer, int(mapping.SourceIndex-prev.SourceIndex))
		buffer = EncodeVLQ(buffer, int(mapping.OriginalLine-prev.OriginalLine))
		buffer = EncodeVLQ(buffer, int(mapping.OriginalColumn-prev.OriginalColumn))
		if mapping.OriginalName >= 0 {
			buffer = EncodeVLQ(buffer, int(mapping.OriginalName-prev.OriginalName))
			prev.OriginalName = mapping.OriginalName
		}

		prevColumn = mapping.GeneratedColumn
		prev.SourceIndex = mapping.SourceIndex
		prev.OriginalLine = mapping.OriginalLine
		prev.OriginalColumn = mapping.OriginalColumn
		hasMappingOnLine = true
	}
	return buffer
}

type JSONOptions struct {
	File      string
	DebugID   string
	ASCIIOnly bool
}

// JSON renders the map in the layout used for ".map" files: one field per
// line, with "sourcesContent" entries on lines of their own.
func (sm *SourceMap) JSON(options JSONOptions) []byte {
	var buf bytes.Buffer
	quoteAll := func(items []string, sep string) {
		for i, item := range items {
			if i > 0 {
				buf.WriteString(sep)
			}
			buf.Write(helpers.QuoteForJSON(item, options.ASCIIOnly))
		}
	}

	buf.WriteString("{\n  \"version\": 3")
	if options.File != "" {
		buf.WriteString(",\n  \"file\": ")
		buf.Write(helpers.QuoteForJSON(options.File, options.ASCIIOnly))
	}

	buf.WriteString(",\n  \"sources\": [")
	quoteAll(sm.Sources, ", ")
	buf.WriteString("]")

	if sm.SourcesContent != nil {
		buf.WriteString(",\n  \"sourcesContent\": [\n    ")
		quoteAll(sm.SourcesContent, ",\n    ")
		buf.WriteString("\n  ]")
	}

	fmt.Fprintf(&buf, ",\n  \"mappings\": \"%s\",\n  \"names\": [", sm.EncodeMappings())
	quoteAll(sm.Names, ", ")
	buf.WriteString("]")

	if options.DebugID != "" {
		fmt.Fprintf(&buf, ",\n  \"debugId\": \"%s\"", options.DebugID)
	}
	buf.WriteString("\n}\n")
	return buf.Bytes()
}

// DebugID derives a stable identifier from the generated code and its
// mappings, so the same input always produces the same ID.
func DebugID(code []byte, mappings []byte) string {
	data := make([]byte, 0, len(code)+len(mappings)+1)
	data = append(data, code...)
	data = append(data, 0)
	data = append(data, mappings...)
	return uuid.NewSHA1(uuid.NameSpaceURL, data).String()
}

func LinkedComment(url string) string {
	return "//# sourceMappingURL=" + url + "\n"
}

func InlineComment(mapJSON []byte) string {
	return "//# sourceMappingURL=data:application/json;base64," + base64.StdEncoding.EncodeToString(mapJSON) + "\n"
}

func DebugIDComment(debugID string) string {
	return "//# debugId=" + debugID + "\n"
}

// ParseMappings decodes a "mappings" string back into absolute mappings.
// Errors include the character offset of the problem.
func ParseMappings(mappings []byte, sourcesCount int, namesCount int) ([]Mapping, error) {
	var result []Mapping
	var generatedLine int32
	var generatedColumn int32
	var sourceIndex int32
	var originalLine int32
	var originalColumn int32
	var originalName int32
	current := 0
	needsSort := false

	for current < len(mappings) {
		switch mappings[current] {
		case ';':
			generatedLine++
			generatedColumn = 0
			current++
			continue
		case ',':
			current++
			continue
		}

		delta, next, ok := DecodeVLQ(mappings, current)
		if !ok {
			return nil, fmt.Errorf("missing generated column at character %d", current)
		}
		if delta < 0 && generatedColumn+int32(delta) < 0 {
			return nil, fmt.Errorf("invalid generated column at character %d", current)
		}
		if delta < 0 {
			needsSort = true
		}
		generatedColumn += int32(delta)
		current = next

		// A mapping with only a generated column has no original position
		if current == len(mappings) || mappings[current] == ',' || mappings[current] == ';' {
			continue
		}

		var fields [3]int
		for i, what := range []string{"source index", "original line", "original column"} {
			if fields[i], next, ok = DecodeVLQ(mappings, current); !ok {
				return nil, fmt.Errorf("missing %s at character %d", what, current)
			}
			current = next
		}
		sourceIndex += int32(fields[0])
		originalLine += int32(fields[1])
		originalColumn += int32(fields[2])
		if sourceIndex < 0 || int(sourceIndex) >= sourcesCount {
			return nil, fmt.Errorf("invalid source index value: %d", sourceIndex)
		}
		if originalLine < 0 {
			return nil, fmt.Errorf("invalid original line value: %d", originalLine)
		}
		if originalColumn < 0 {
			return nil, fmt.Errorf("invalid original column value: %d", originalColumn)
		}

		name := int32(-1)
		if current < len(mappings) && mappings[current] != ',' && mappings[current] != ';' {
			delta, next, ok := DecodeVLQ(mappings, current)
			if !ok {
				return nil, fmt.Errorf("invalid original name at character %d", current)
			}
			originalName += int32(delta)
			if originalName < 0 || int(originalName) >= namesCount {
				return nil, fmt.Errorf("invalid original name value: %d", originalName)
			}
			name = originalName
			current = next
		}

		if current < len(mappings) && mappings[current] != ',' && mappings[current] != ';' {
			c, _ := utf8.DecodeRune(mappings[current:])
			return nil, fmt.Errorf("invalid character after mapping: %q", c)
		}

		result = append(result, Mapping{
			GeneratedLine:   generatedLine,
			GeneratedColumn: generatedColumn,
			SourceIndex:     sourceIndex,
			OriginalLine:    originalLine,
			OriginalColumn:  originalColumn,
			OriginalName:    name,
		})
	}

	// Mappings on the same line may be out of order
	if needsSort {
		sort.SliceStable(result, func(i, j int) bool {
			a, b := result[i], result[j]
			return a.GeneratedLine < b.GeneratedLine || (a.GeneratedLine == b.GeneratedLine && a.GeneratedColumn < b.GeneratedColumn)
		})
	}
	return result, nil
}
