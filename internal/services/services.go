// Package services maps well-known TCP ports to human-readable labels.
package services

var defaults = map[uint16]string{
	21:   "FTP",
	22:   "SSH",
	23:   "TELNET",
	25:   "SMTP",
	53:   "DNS",
	80:   "HTTP",
	110:  "POP3",
	143:  "IMAP",
	443:  "HTTPS",
	3306: "MySQL",
	6379: "Redis",
	8080: "HTTP-ALT",
}

// Table is read-only after construction and safe for concurrent lookups.
type Table struct {
	names map[uint16]string
}

var defaultTable = New(nil)

// Default returns the built-in table.
func Default() *Table {
	return defaultTable
}

// New builds a table from the built-in entries plus overrides.
// An override with an empty name removes the built-in label for that port.
func New(overrides map[uint16]string) *Table {
	names := make(map[uint16]string, len(defaults)+len(overrides))
	for p, n := range defaults {
		names[p] = n
	}
	for p, n := range overrides {
		if n == "" {
			delete(names, p)
			continue
		}
		names[p] = n
	}
	return &Table{names: names}
}

func (t *Table) Lookup(port uint16) (string, bool) {
	if t == nil {
		return "", false
	}
	n, ok := t.names[port]
	return n, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}
