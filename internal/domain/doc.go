// Package domain derives a cycling "weather comfort" series from an
// Open-Meteo hourly/daily forecast.
//
// # Data Source
//
// Forecasts come from the Open-Meteo forecast API
// (https://open-meteo.com/en/docs) requested with timezone=auto, so every
// hour string is in the location's local time and utc_offset_seconds gives
// the flat offset back to UTC. The request asks for one past day so the
// trailing precipitation sums have history to look back over.
//
// # Hour Strings
//
// Hourly times and daily sunrise/sunset values use the zero-padded format
//
//	YYYY-MM-DDTHH:MM  →  e.g. "2024-06-01T05:12"
//
// Because the format is fixed width and chronological, hour strings are
// compared lexicographically. The current hour is formatted without minutes
// ("2024-06-01T12"), which sorts before every minute of that hour. DST
// transitions are not reconciled; the offset is whatever Open-Meteo reported
// for the request.
//
// # Units
//
// The derivation runs entirely in metric base units:
//
//	temperature_2m       °C
//	wind_speed_10m       km/h
//	precipitation, rain  mm
//	snowfall             cm (emitted as mm, ×10)
//	surface_pressure     hPa
//	shortwave_radiation  W/m²
//
// Conversion to imperial or nautical units happens once on the finished
// series. A snow value of -1 is the "no snow" sentinel and survives every
// conversion unchanged.
//
// # Comfort Score
//
// The comfort score starts at 10 on a 1–10 scale and applies ten independent
// adjustments (temperature band, cold extremity, extreme heat, dew point,
// wind, precipitation, solar radiation, humid heat under sun, sensitivity
// profile, intensity-scaled heat stress). The sum is clamped to [1, 10] and
// multiplied by 10, so the published values are 10, 20, …, 100. See
// [ComfortScore].
//
// # Missing Data
//
// Any hourly series may be absent from the payload. [HourlyData.Resolve]
// substitutes zeros at a single boundary before the per-hour loop runs. A
// payload without an hourly or daily section is rejected with
// [ErrMalformedPayload].
package domain
