package handler

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"

	"github.com/fakhrymubarak/weather-station/internal/config"
	"github.com/fakhrymubarak/weather-station/internal/model"
	"github.com/fakhrymubarak/weather-station/internal/service"
)

const (
	msgWelcome      = "Welcome to Weather Station!"
	msgUnits        = "Please select your units. (Imperial / Metric / Standard)"
	msgInvalidUnits = "You have selected an invalid unit. Defaulting to standard."
	msgCountry      = "Please enter the country code (e.g., US for United States):"
	msgState        = "Please enter the state code (e.g., NY for New York):"
	msgCity         = "Please enter the name of the city:"
	msgAgain        = "Do you want to search for weather in another city? (yes/no):"
	msgGoodbye      = "Thank you for using our software!"
)

// PromptHandler runs the interactive weather lookup loop over plain streams.
type PromptHandler struct {
	WeatherService service.WeatherServiceInterface

	in     *bufio.Scanner
	out    io.Writer
	errOut io.Writer
}

func NewPromptHandler(svc service.WeatherServiceInterface, in io.Reader, out, errOut io.Writer) *PromptHandler {
	return &PromptHandler{
		WeatherService: svc,
		in:             bufio.NewScanner(in),
		out:            out,
		errOut:         errOut,
	}
}

// Run prompts for units once, then for locations until the user declines to
// continue or input ends. Lookup failures are printed and the loop goes on.
func (h *PromptHandler) Run(ctx context.Context) error {
	h.println(color.FgLightYellow, msgWelcome)

	h.println(color.FgLightGreen, msgUnits)
	answer, ok := h.readLine()
	if !ok {
		return h.in.Err()
	}
	units, known := model.ParseUnitSystem(answer)
	if !known {
		h.println(color.FgLightRed, msgInvalidUnits)
	}
	config.GetLogger().Debugw("Units selected", "input", answer, "units", units)

	for {
		query, ok := h.readQuery()
		if !ok {
			return h.in.Err()
		}

		styled, err := h.WeatherService.GetReport(ctx, query, units)
		if err != nil {
			fmt.Fprintf(h.errOut, "%s: %v\n", color.FgLightRed.Sprint("Error"), err)
		} else {
			fmt.Fprintln(h.out, styled.String())
		}

		h.println(color.FgLightGreen, msgAgain)
		again, ok := h.readLine()
		if !ok || strings.ToLower(again) != "yes" {
			fmt.Fprintln(h.out, msgGoodbye)
			return h.in.Err()
		}
	}
}

func (h *PromptHandler) readQuery() (model.LocationQuery, bool) {
	var q model.LocationQuery
	fields := []struct {
		prompt string
		dst    *string
	}{
		{msgCountry, &q.CountryCode},
		{msgState, &q.StateCode},
		{msgCity, &q.City},
	}
	for _, f := range fields {
		h.println(color.FgLightGreen, f.prompt)
		v, ok := h.readLine()
		if !ok {
			return q, false
		}
		*f.dst = v
	}
	return q, true
}

// readLine returns the next trimmed line; ok is false at end of input.
func (h *PromptHandler) readLine() (string, bool) {
	if !h.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(h.in.Text()), true
}

func (h *PromptHandler) println(c color.Color, msg string) {
	fmt.Fprintln(h.out, c.Sprint(msg))
}
