package linear

// Option is a function that configures LinearRegression
type Option func(*LinearRegression)

// WithFitIntercept sets whether to calculate the intercept
func WithFitIntercept(fit bool) Option {
	return func(lr *LinearRegression) {
		lr.FitIntercept = fit
	}
}

// WithAlpha sets the ridge penalty added to the normal equations. The
// intercept is never penalised. A small positive value keeps leaves fitted on
// a handful of rows solvable.
func WithAlpha(alpha float64) Option {
	return func(lr *LinearRegression) {
		lr.Alpha = alpha
	}
}
