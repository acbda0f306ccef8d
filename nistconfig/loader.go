package nistconfig

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/halvorsen/biomdi/errs"
	"github.com/halvorsen/biomdi/format"
)

// MaxConfigLayers bounds how many configuration files LoadChain will
// stack, matching spec.md §6's "up to ten configuration layers".
const MaxConfigLayers = 10

// nameValue is one "name value..." line inside a block.
type nameValue struct {
	Name   string
	Values []string
}

// rawBlock is one "keyword args... { ... }" block, the generic shape
// every recognized block kind (standard, record, field, item, list,
// option) parses into before being interpreted by buildSpecification.
type rawBlock struct {
	Keyword string
	Args    []string
	Pairs   []nameValue
	Blocks  []*rawBlock
}

func (b *rawBlock) pair(name string) ([]string, bool) {
	for _, p := range b.Pairs {
		if p.Name == name {
			return p.Values, true
		}
	}
	return nil, false
}

// Load reads and parses the configuration file at path into a
// Specification with no Parent set.
func Load(path string) (*Specification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.Io, err, "nistconfig: read config %q", path)
	}
	return LoadBytes(data, path)
}

// LoadChain reads each path in order and chains the resulting
// Specifications so that later files override earlier ones: the
// returned Specification is the last file loaded, with Parent pointing
// back through the earlier layers down to the first.
func LoadChain(paths ...string) (*Specification, error) {
	if len(paths) == 0 {
		return nil, errs.New(errs.Invalid, "nistconfig: no configuration files given")
	}
	if len(paths) > MaxConfigLayers {
		return nil, errs.New(errs.Invalid, "nistconfig: %d layers exceeds the maximum of %d", len(paths), MaxConfigLayers)
	}

	var prev *Specification
	for _, p := range paths {
		spec, err := Load(p)
		if err != nil {
			return nil, err
		}
		spec.Parent = prev
		prev = spec
	}
	return prev, nil
}

// LoadBytes parses config file content already read into memory. name
// is used only in error messages.
func LoadBytes(data []byte, name string) (*Specification, error) {
	lines, err := splitLines(data)
	if err != nil {
		return nil, errs.Wrap(errs.Malformed, err, "nistconfig: %s", name)
	}

	i := 0
	blocks, _, err := parseBlocks(lines, &i, 0)
	if err != nil {
		return nil, errs.Wrap(errs.Malformed, err, "nistconfig: %s", name)
	}

	for _, b := range blocks {
		if b.Keyword == "standard" {
			spec, err := buildSpecification(b)
			if err != nil {
				return nil, errs.Wrap(errs.Malformed, err, "nistconfig: %s", name)
			}
			return spec, nil
		}
	}
	return nil, errs.New(errs.Malformed, "nistconfig: %s: no standard block found", name)
}

func splitLines(data []byte) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		line := stripComment(sc.Text())
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil && err != io.EOF {
		return nil, err
	}
	return lines, nil
}

// stripComment removes a trailing "# ..." comment, honoring double
// quotes so a '#' inside a quoted string is not treated as one.
func stripComment(line string) string {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuote = !inQuote
		case '#':
			if !inQuote {
				return line[:i]
			}
		}
	}
	return line
}

// tokenizeLine splits a line into words, treating double-quoted spans
// as single tokens (C-style quoting, spec.md §6).
func tokenizeLine(line string) []string {
	var toks []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			inQuote = !inQuote
		case !inQuote && (c == ' ' || c == '\t'):
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return toks
}

// parseBlocks consumes lines[*i:] at nesting depth, returning the
// sibling blocks and simple name/value pairs found at this depth. A
// line ending in "{" opens a nested block closed by a line that is
// exactly "}"; any other line is a simple pair.
func parseBlocks(lines []string, i *int, depth int) ([]*rawBlock, []nameValue, error) {
	var blocks []*rawBlock
	var pairs []nameValue

	for *i < len(lines) {
		line := lines[*i]
		if line == "}" {
			if depth == 0 {
				return nil, nil, fmt.Errorf("unexpected '}' at line %d", *i+1)
			}
			*i++
			return blocks, pairs, nil
		}

		toks := tokenizeLine(line)
		if len(toks) == 0 {
			*i++
			continue
		}

		if toks[len(toks)-1] == "{" {
			kw := toks[0]
			args := toks[1 : len(toks)-1]
			*i++
			children, childPairs, err := parseBlocks(lines, i, depth+1)
			if err != nil {
				return nil, nil, err
			}
			blocks = append(blocks, &rawBlock{Keyword: kw, Args: args, Pairs: childPairs, Blocks: children})
			continue
		}

		pairs = append(pairs, nameValue{Name: toks[0], Values: toks[1:]})
		*i++
	}

	if depth != 0 {
		return nil, nil, fmt.Errorf("unterminated block")
	}
	return blocks, pairs, nil
}

func buildSpecification(b *rawBlock) (*Specification, error) {
	tag := strings.Join(b.Args, " ")
	s := New(tag)

	for _, child := range b.Blocks {
		switch child.Keyword {
		case "record":
			rs, err := buildRecordSpec(child)
			if err != nil {
				return nil, err
			}
			s.Records = append(s.Records, rs)
		case "field":
			fs, err := buildFieldSpec(child)
			if err != nil {
				return nil, err
			}
			s.Fields = append(s.Fields, fs)
		case "item":
			is, err := buildItemSpec(child)
			if err != nil {
				return nil, err
			}
			s.Items[is.Name] = is
		case "list":
			if len(child.Args) != 1 {
				return nil, fmt.Errorf("list block requires exactly one name argument")
			}
			values, _ := child.pair("values")
			s.Lists[child.Args[0]] = values
		case "option":
			if len(child.Args) != 1 {
				return nil, fmt.Errorf("option block requires exactly one name argument")
			}
			values, _ := child.pair("value")
			s.Options[child.Args[0]] = strings.Join(values, " ")
		default:
			return nil, fmt.Errorf("unrecognized block kind %q", child.Keyword)
		}
	}

	for _, p := range b.Pairs {
		if p.Name == "option" && len(p.Values) >= 2 {
			s.Options[p.Values[0]] = strings.Join(p.Values[1:], " ")
		}
	}

	return s, nil
}

func buildRecordSpec(b *rawBlock) (*RecordSpec, error) {
	if len(b.Args) != 1 {
		return nil, fmt.Errorf("record block requires exactly one type argument")
	}
	recordType, err := strconv.Atoi(b.Args[0])
	if err != nil {
		return nil, fmt.Errorf("record type %q: %w", b.Args[0], err)
	}

	kind := format.KindASCII
	if v, ok := b.pair("kind"); ok && len(v) == 1 {
		switch strings.ToUpper(v[0]) {
		case "ASCII":
			kind = format.KindASCII
		case "BINARY":
			kind = format.KindBinary
		case "MIXED":
			kind = format.KindMixed
		default:
			return nil, fmt.Errorf("record %d: unrecognized kind %q", recordType, v[0])
		}
	}

	return &RecordSpec{Type: recordType, Kind: kind}, nil
}

func buildFieldSpec(b *rawBlock) (*FieldSpec, error) {
	if len(b.Args) != 1 {
		return nil, fmt.Errorf("field block requires exactly one \"rr.fff\" argument")
	}
	recordType, fieldNumber, err := parseFieldID(b.Args[0])
	if err != nil {
		return nil, err
	}

	fs := &FieldSpec{RecordType: recordType, FieldNumber: fieldNumber}

	if v, ok := b.pair("occ"); ok {
		fs.OccurMin, fs.OccurMax, err = parseIntPair(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: occ: %w", fs.Tag(), err)
		}
	}
	if v, ok := b.pair("size"); ok {
		fs.SizeMin, fs.SizeMax, err = parseIntPair(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: size: %w", fs.Tag(), err)
		}
	}
	if v, ok := b.pair("required"); ok && len(v) == 1 {
		fs.Required = v[0] == "true"
	}
	if v, ok := b.pair("item"); ok {
		fs.Items = append(fs.Items, v...)
	}

	return fs, nil
}

func buildItemSpec(b *rawBlock) (*ItemSpec, error) {
	if len(b.Args) != 1 {
		return nil, fmt.Errorf("item block requires exactly one name argument")
	}
	is := &ItemSpec{Name: b.Args[0]}

	v, ok := b.pair("type")
	if !ok || len(v) != 1 {
		return nil, fmt.Errorf("item %s: missing type", is.Name)
	}
	itemType, err := parseItemType(v[0])
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", is.Name, err)
	}
	is.Type = itemType

	if minV, ok := b.pair("min"); ok && len(minV) == 1 {
		f, err := strconv.ParseFloat(minV[0], 64)
		if err != nil {
			return nil, fmt.Errorf("item %s: min: %w", is.Name, err)
		}
		is.Min = f
		is.HasRange = true
	}
	if maxV, ok := b.pair("max"); ok && len(maxV) == 1 {
		f, err := strconv.ParseFloat(maxV[0], 64)
		if err != nil {
			return nil, fmt.Errorf("item %s: max: %w", is.Name, err)
		}
		is.Max = f
		is.HasRange = true
	}
	if listV, ok := b.pair("list"); ok && len(listV) == 1 {
		is.List = listV[0]
	}

	return is, nil
}

func parseFieldID(s string) (recordType, fieldNumber int, err error) {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("field id %q: want \"rr.fff\"", s)
	}
	recordType, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("field id %q: %w", s, err)
	}
	fieldNumber, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("field id %q: %w", s, err)
	}
	return recordType, fieldNumber, nil
}

func parseIntPair(v []string) (min, max int, err error) {
	if len(v) != 2 {
		return 0, 0, fmt.Errorf("want two values, got %d", len(v))
	}
	min, err = strconv.Atoi(v[0])
	if err != nil {
		return 0, 0, err
	}
	max, err = strconv.Atoi(v[1])
	if err != nil {
		return 0, 0, err
	}
	return min, max, nil
}

func parseItemType(s string) (format.ItemType, error) {
	switch strings.ToUpper(s) {
	case "NUM":
		return format.ItemNum, nil
	case "SNUM":
		return format.ItemSNum, nil
	case "CNUM":
		return format.ItemCNum, nil
	case "HEX":
		return format.ItemHex, nil
	case "FP":
		return format.ItemFP, nil
	case "STR":
		return format.ItemStr, nil
	case "BIN":
		return format.ItemBin, nil
	case "DATE":
		return format.ItemDate, nil
	case "GMT":
		return format.ItemGmt, nil
	case "IMAGE":
		return format.ItemImage, nil
	default:
		return 0, fmt.Errorf("unrecognized item type %q", s)
	}
}
