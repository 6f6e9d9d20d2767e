// Package domain models maize growth-stage phenology and heat-stress
// evaluation against projected daily temperatures.
//
// # Data Source
//
// Daily temperature series are 20-year daily averages (2071–2090) produced
// from downscaled climate projections under two Shared Socioeconomic Pathway
// scenarios: SSP2-4.5 (moderate emissions, label "ssp245") and SSP5-8.5
// (high emissions, label "ssp585"). One series exists per region × scenario,
// covering a single synthetic year at one-day resolution. Series directories
// and workbook rows use the parenthesized label convention from the upstream
// crop-model outputs, e.g. "(2071-2090)(ssp245)". See [ScenarioLabel].
//
// # Phenology Conventions
//
// Growth stages follow the usual coarse maize staging: emergence,
// vegetative, flowering (silking), grain filling, physiological maturity.
// Flowering and grain filling are the heat-sensitive stages; a daily maximum
// above the physiological threshold (35 °C by convention) during either
// reduces pollination success or kernel weight.
//
// Stage durations come from a cultivar parameter table and are expressed
// either as fixed day counts or as thermal time:
//
//	GDD/day = max(0, (Tmin+Tmax)/2 − Tbase)
//
// with Tbase the cultivar's base temperature (typically 8–10 °C for maize).
// A thermal stage completes on the day its accumulated GDD reaches the
// requirement.
//
// Timing is reported in days after sowing (DAS). Observed FloweringDAS and
// MaturityDAS means from crop-model runs may be used to calibrate a
// cultivar's day-count table per region and scenario, see
// [CalibrateDurations].
//
// # Stage Windows
//
// Windows are half-open calendar intervals [Start, End): each stage starts
// the day the previous one ends, so the sequence is contiguous and
// non-overlapping and its union spans exactly sowing → maturity. Evaluation
// selects series points with Start ≤ date < End.
package domain
