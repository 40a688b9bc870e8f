package bmeta

import (
	"io"

	"github.com/sirupsen/logrus"
)

const defaultBuildMeta = "N/A" // Значение по умолчанию

// Meta версия, дата и комит сборки.
type Meta struct {
	Version string
	Date    string
	Commit  string
}

// New подставляет N/A вместо пустых значений.
func New(version, date, commit string) Meta {
	meta := Meta{
		Version: defaultBuildMeta,
		Date:    defaultBuildMeta,
		Commit:  defaultBuildMeta,
	}
	if version != "" {
		meta.Version = version
	}
	if date != "" {
		meta.Date = date
	}
	if commit != "" {
		meta.Commit = commit
	}
	return meta
}

// Fields поля для структурного лога.
func (m Meta) Fields() logrus.Fields {
	return logrus.Fields{
		"build_version": m.Version,
		"build_date":    m.Date,
		"build_commit":  m.Commit,
	}
}

// Print Распечатывает версию, дату и комит сборки.
func Print(w io.Writer, version, date, commit string) {
	meta := New(version, date, commit)
	_, _ = io.WriteString(w, "Build version: "+meta.Version+"\n"+
		"Build date: "+meta.Date+"\n"+
		"Build commit: "+meta.Commit+"\n")
}
