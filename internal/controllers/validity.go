package controllers

import (
	"bytes"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// flexValidity срок жизни в минутах, принимается как числом, так и строкой.
// Целое число в записи с дробной частью (15.0, 1e1) приводится к целому.
// Проверка значения остается за сервисным слоем.
type flexValidity string

func (v *flexValidity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err //nolint:wrapcheck
		}
		*v = flexValidity(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err //nolint:wrapcheck
	}
	*v = flexValidity(integralNumber(n.String()))
	return nil
}

// maxExactFloat наибольшее целое, которое float64 представляет без потерь.
const maxExactFloat = 1 << 53

// integralNumber приводит 15.0 к 15. Прочие значения возвращаются как есть.
func integralNumber(raw string) string {
	if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return raw
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactFloat {
		return raw
	}
	return strconv.FormatInt(int64(f), 10)
}
