package parser

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cybertec-postgresql/sqlsplit/internal/errors"
)

// units parses src and returns every unit, failing the test on error.
func units(t *testing.T, src string) []Unit {
	t.Helper()
	parsed, err := ParseAll(strings.NewReader(src))
	if err != nil {
		t.Fatalf("src=%q: ParseAll() error = %v", src, err)
	}
	return parsed.Units
}

func unitTypes(us []Unit) []UnitType {
	types := make([]UnitType, len(us))
	for i, u := range us {
		types[i] = u.Type
	}
	return types
}

func TestParse_UnitSequence(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []UnitType
	}{
		{
			name: "empty",
			sql:  "",
			want: []UnitType{},
		},
		{
			name: "comment then block",
			sql:  "-- hi\nCREATE TABLE t (a int);",
			want: []UnitType{CommentUnit, Block},
		},
		{
			name: "multi-row insert",
			sql:  "INSERT INTO t VALUES (1),(2),(3);",
			want: []UnitType{Insert, ValuesTuple, ValuesTuple},
		},
		{
			name: "rows on separate lines",
			sql:  "INSERT INTO t VALUES\n(1),\n(2);\n",
			want: []UnitType{Insert, Whitespace, ValuesTuple, Whitespace},
		},
		{
			name: "bare semicolons are whitespace",
			sql:  ";; \t",
			want: []UnitType{Whitespace, Whitespace, Whitespace, Whitespace},
		},
		{
			name: "insert select is a block",
			sql:  "INSERT INTO t SELECT * FROM u;",
			want: []UnitType{Block},
		},
		{
			name: "block comment",
			sql:  "/* x */SET NAMES utf8;",
			want: []UnitType{CommentUnit, Block},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := unitTypes(units(t, tt.sql))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("unit[%d]: got %v, want %v (all: %v)", i, got[i], tt.want[i], got)
				}
			}
		})
	}
}

func TestParse_InsertPrefix(t *testing.T) {
	us := units(t, "insert into `t` (`a`, `b`) VALUES (1,'x'),(2,'y');")
	if us[0].Type != Insert {
		t.Fatalf("got %v", us[0].Type)
	}
	if got := string(us[0].Prefix); got != "insert into `t` (`a`, `b`) VALUES " {
		t.Errorf("prefix = %q", got)
	}
	if got := string(us[0].Bytes); got != "insert into `t` (`a`, `b`) VALUES (1,'x')," {
		t.Errorf("bytes = %q", got)
	}
	if got := string(us[1].Bytes); got != "(2,'y');" {
		t.Errorf("tuple = %q", got)
	}
	if us[1].Prefix != nil {
		t.Errorf("tuple carries a prefix")
	}
}

func TestParse_TerminatorsInsideGroupsAndStrings(t *testing.T) {
	us := units(t, "INSERT INTO t VALUES (1,'a;b'),('c,d',\"e)\");")
	if len(us) != 2 {
		t.Fatalf("got %d units", len(us))
	}
	if got := string(us[0].Bytes); got != "INSERT INTO t VALUES (1,'a;b')," {
		t.Errorf("insert = %q", got)
	}
	if got := string(us[1].Bytes); got != "('c,d',\"e)\");" {
		t.Errorf("tuple = %q", got)
	}
}

func TestParse_BlockKeepsInnerPunctuation(t *testing.T) {
	sql := "CREATE TABLE `t` (\n  `a` int(11) NOT NULL,\n  PRIMARY KEY (`a`)\n) ENGINE=InnoDB;"
	us := units(t, sql)
	if len(us) != 1 || us[0].Type != Block || string(us[0].Bytes) != sql {
		t.Fatalf("got %v", us)
	}
}

func TestParse_UnitCoverage(t *testing.T) {
	sql := "-- MySQL dump\n/*!40101 SET NAMES utf8 */;\nDROP TABLE IF EXISTS `t`;\n" +
		"CREATE TABLE `t` (`a` int, `b` varchar(10));\n" +
		"INSERT INTO `t` VALUES (1,'x'),(2,'y\\'s'),\n(3,NULL);\n" +
		"INSERT INTO `t` VALUES (4,'z');\n"
	parsed, err := ParseAll(strings.NewReader(sql))
	if err != nil {
		t.Fatalf("ParseAll() error = %v", err)
	}
	if string(parsed.Bytes()) != sql {
		t.Fatalf("reassembled units differ from input")
	}
	if n := parsed.CountByType(Insert); n != 2 {
		t.Errorf("inserts = %d, want 2", n)
	}
	if n := parsed.CountByType(ValuesTuple); n != 2 {
		t.Errorf("tuples = %d, want 2", n)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want error
	}{
		{"unclosed string", "SELECT 'abc", errors.ErrUnclosedString},
		{"insert without values", "INSERT INTO t", errors.ErrIncompleteInsert},
		{"insert without terminator", "INSERT INTO t VALUES (1)", errors.ErrIncompleteInsert},
		{"insert with open group", "INSERT INTO t VALUES (1", errors.ErrIncompleteInsert},
		{"tuple without terminator", "(1)", errors.ErrIncompleteValues},
		{"tuple with open group", "(1, 2", errors.ErrIncompleteValues},
		{"block without semicolon", "CREATE TABLE t (a int)", errors.ErrUnexpectedEOF},
		{"trailing keyword", "COMMIT", errors.ErrUnexpectedEOF},
		{"stray right paren", ")", errors.ErrInvalidSQL},
		{"stray string", "'x';", errors.ErrInvalidSQL},
		{"stray number", "42;", errors.ErrInvalidSQL},
		{"stray identifier", "`t`;", errors.ErrInvalidSQL},
		{"stray comma", ",", errors.ErrInvalidSQL},
		{"stray dot", ".", errors.ErrInvalidSQL},
		{"stray byte", "#", errors.ErrInvalidSQL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAll(strings.NewReader(tt.sql))
			if !stderrors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			var syntaxErr *errors.SyntaxError
			if !stderrors.As(err, &syntaxErr) {
				t.Fatalf("error %T is not a SyntaxError", err)
			}
		})
	}
}

func TestParse_ErrorOffset(t *testing.T) {
	_, err := ParseAll(strings.NewReader("SELECT 1;\n)"))
	var syntaxErr *errors.SyntaxError
	if !stderrors.As(err, &syntaxErr) {
		t.Fatalf("got %v", err)
	}
	if syntaxErr.Offset != 11 {
		t.Errorf("offset = %d, want 11", syntaxErr.Offset)
	}
}

func TestParse_EndIsRepeatable(t *testing.T) {
	p := NewParserFromReader(strings.NewReader(""))
	for i := 0; i < 2; i++ {
		u, err := p.Next()
		if err != nil || u.Type != End {
			t.Fatalf("got %v %v", u.Type, err)
		}
	}
}

func TestParseFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "dump.sql")
	if err := os.WriteFile(tmpFile, []byte("SELECT 1;\n"), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	parsed, err := ParseFile(tmpFile)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if parsed.Path != tmpFile {
		t.Errorf("path = %q", parsed.Path)
	}
	if len(parsed.Units) != 2 {
		t.Errorf("got %d units, want 2", len(parsed.Units))
	}
}

func TestParseFile_Missing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "nope.sql")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
