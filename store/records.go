package store

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/josephgoksu/tasktrack/models"
)

// Text record format: one record per line, fields separated by whitespace.
// Fields that are empty, contain whitespace or non-printable runes, or begin
// with a double quote are written as Go-quoted strings. Trailing empty
// fields are dropped, so open tasks and plain accounts look exactly like the
// legacy single-token format.

// Task field positions within a text record.
const (
	taskFieldID = iota
	taskFieldOwner
	taskFieldDescription
	taskFieldDeadline
	taskFieldCompleted
	taskFieldCompletionDate
)

func needsQuoting(field string) bool {
	if field == "" || strings.HasPrefix(field, `"`) {
		return true
	}
	return strings.IndexFunc(field, func(r rune) bool {
		return unicode.IsSpace(r) || !unicode.IsPrint(r)
	}) >= 0
}

func quoteField(field string) string {
	if needsQuoting(field) {
		return strconv.Quote(field)
	}
	return field
}

// encodeRecord joins fields into a single line without a trailing newline.
func encodeRecord(fields ...string) string {
	end := len(fields)
	for end > 0 && fields[end-1] == "" {
		end--
	}
	quoted := make([]string, end)
	for i, f := range fields[:end] {
		quoted[i] = quoteField(f)
	}
	return strings.Join(quoted, " ")
}

// splitRecord tokenizes one line. A token starting with a double quote is
// decoded with strconv.Unquote; if it is unterminated or invalid the quote is
// treated as an ordinary character.
func splitRecord(line string) []string {
	var fields []string
	i := 0
	for i < len(line) {
		r, size := utf8.DecodeRuneInString(line[i:])
		if unicode.IsSpace(r) {
			i += size
			continue
		}
		if line[i] == '"' {
			if end := closingQuote(line, i); end > 0 {
				if s, err := strconv.Unquote(line[i : end+1]); err == nil {
					fields = append(fields, s)
					i = end + 1
					continue
				}
			}
		}
		j := i
		for j < len(line) {
			r, size := utf8.DecodeRuneInString(line[j:])
			if unicode.IsSpace(r) {
				break
			}
			j += size
		}
		fields = append(fields, line[i:j])
		i = j
	}
	return fields
}

func closingQuote(line string, start int) int {
	for j := start + 1; j < len(line); j++ {
		switch line[j] {
		case '\\':
			j++
		case '"':
			return j
		}
	}
	return -1
}

// readRecords splits data into tokenized lines, skipping blank ones.
// Lines may be of any length.
func readRecords(data []byte) ([][]string, error) {
	var records [][]string
	r := bufio.NewReader(bytes.NewReader(data))
	for {
		line, err := r.ReadString('\n')
		if fields := splitRecord(strings.TrimRight(line, "\r\n")); len(fields) > 0 {
			records = append(records, fields)
		}
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
	}
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

// decodeTask builds a task from whatever fields are present. Parse failures
// leave the zero value in place.
func decodeTask(fields []string) models.Task {
	id, _ := strconv.Atoi(field(fields, taskFieldID))
	return models.Task{
		ID:             id,
		Owner:          field(fields, taskFieldOwner),
		Description:    field(fields, taskFieldDescription),
		Deadline:       field(fields, taskFieldDeadline),
		Completed:      parseCompleted(field(fields, taskFieldCompleted)),
		CompletionDate: field(fields, taskFieldCompletionDate),
	}
}

func parseCompleted(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func encodeTask(t models.Task) string {
	completed := "0"
	if t.Completed {
		completed = "1"
	}
	return encodeRecord(
		strconv.Itoa(t.ID),
		t.Owner,
		t.Description,
		t.Deadline,
		completed,
		t.CompletionDate,
	)
}

func decodeAccount(fields []string) models.Account {
	return models.Account{
		Username: field(fields, 0),
		Password: field(fields, 1),
	}
}

func encodeAccount(a models.Account) string {
	return encodeRecord(a.Username, a.Password)
}

// MarshalTasksText renders tasks in the text record format.
func MarshalTasksText(tasks []models.Task) []byte {
	var buf bytes.Buffer
	for _, t := range tasks {
		buf.WriteString(encodeTask(t))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// UnmarshalTasksText parses the text record format. Malformed lines produce
// partially populated tasks rather than errors.
func UnmarshalTasksText(data []byte) ([]models.Task, error) {
	records, err := readRecords(data)
	if err != nil {
		return nil, err
	}
	tasks := make([]models.Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, decodeTask(r))
	}
	return tasks, nil
}

// MarshalAccountsText renders accounts in the text record format.
func MarshalAccountsText(accounts []models.Account) []byte {
	var buf bytes.Buffer
	for _, a := range accounts {
		buf.WriteString(encodeAccount(a))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// UnmarshalAccountsText parses the text record format for accounts.
func UnmarshalAccountsText(data []byte) ([]models.Account, error) {
	records, err := readRecords(data)
	if err != nil {
		return nil, err
	}
	accounts := make([]models.Account, 0, len(records))
	for _, r := range records {
		accounts = append(accounts, decodeAccount(r))
	}
	return accounts, nil
}
