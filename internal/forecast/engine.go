package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/aouyang1/go-forecaster"

	"InvestSuggest/internal/model"
)

// Engine fits a model on in and predicts over the history plus horizonDays
// future days. It is called once per request.
type Engine interface {
	Forecast(ctx context.Context, in model.ForecastInput, horizonDays int) (*Frame, error)
	Name() string
}

// Run prepares series, invokes engine with HorizonDays and extracts the
// standard output columns.
func Run(ctx context.Context, engine Engine, series model.PriceSeries) (model.ForecastOutput, error) {
	in, err := ToForecastInput(series)
	if err != nil {
		return model.ForecastOutput{}, err
	}
	frame, err := engine.Forecast(ctx, in, HorizonDays)
	if err != nil {
		return model.ForecastOutput{}, fmt.Errorf("%s forecast: %w", engine.Name(), err)
	}
	return ExtractForecastOutput(frame)
}

// GoForecaster runs github.com/aouyang1/go-forecaster. A nil Options uses the
// library defaults.
type GoForecaster struct {
	Options *forecaster.Options
}

func NewGoForecaster(opt *forecaster.Options) *GoForecaster {
	return &GoForecaster{Options: opt}
}

func (g *GoForecaster) Name() string { return "go-forecaster" }

func (g *GoForecaster) Forecast(ctx context.Context, in model.ForecastInput, horizonDays int) (*Frame, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	n := len(in.Points)
	t := make([]time.Time, n)
	y := make([]float64, n)
	for i, p := range in.Points {
		t[i] = p.Timestamp
		y[i] = p.Value
	}

	f, err := forecaster.New(g.Options)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.Fit(t, y); err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all := make([]time.Time, 0, n+horizonDays)
	all = append(all, t...)
	all = append(all, FutureTimestamps(t[n-1], horizonDays)...)
	res, err := f.Predict(all)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	return &Frame{
		Timestamps: res.T,
		Columns: map[string][]float64{
			ColPredicted: res.Forecast,
			ColLower:     res.Lower,
			ColUpper:     res.Upper,
		},
	}, nil
}
