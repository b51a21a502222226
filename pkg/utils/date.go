package utils

import (
	"fmt"
	"time"
)

// Presets de período aceitos pelo dashboard e pela listagem de campanhas.
const (
	PresetToday     = "today"
	PresetYesterday = "yesterday"
	Preset7Days     = "7d"
	Preset30Days    = "30d"
	Preset90Days    = "90d"
)

// PresetRange calcula o intervalo [from, to] de um preset no fuso informado.
// Presets de múltiplos dias são ancorados no fim de ontem, não de hoje, para
// evitar subcontagem do dia parcial em andamento.
func PresetRange(preset string, loc *time.Location, now time.Time) (time.Time, time.Time, error) {
	today := StartOfDay(now.In(loc))
	yesterday := today.AddDate(0, 0, -1)

	switch preset {
	case PresetToday:
		return today, today, nil
	case PresetYesterday:
		return yesterday, yesterday, nil
	case Preset7Days:
		return yesterday.AddDate(0, 0, -6), yesterday, nil
	case Preset30Days:
		return yesterday.AddDate(0, 0, -29), yesterday, nil
	case Preset90Days:
		return yesterday.AddDate(0, 0, -89), yesterday, nil
	}

	return time.Time{}, time.Time{}, fmt.Errorf("período inválido: %s", preset)
}

// MonthToDateRange retorna o intervalo do primeiro dia do mês corrente até
// hoje, no fuso informado. Usado pelos destaques de gasto mensal por conta.
func MonthToDateRange(loc *time.Location, now time.Time) (time.Time, time.Time) {
	local := now.In(loc)
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return first, StartOfDay(local)
}

// StartOfDay normaliza o instante para meia-noite no próprio fuso.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween gera as datas (meia-noite) entre from e to, inclusive.
func DaysBetween(from, to time.Time) []time.Time {
	if from.After(to) {
		return []time.Time{}
	}

	var dates []time.Time
	for d := StartOfDay(from); !d.After(StartOfDay(to)); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}

	return dates
}
