// Package domain models the SHN tide chart and the draft-with-gangway lookup
// applied to it.
//
// # Data Source
//
// The Servicio de Hidrografía Naval (SHN) publishes a total water height
// forecast per station as an SVG chart, e.g.
// https://api.shn.gob.ar/imagenes-modelo/curvas_altura-total/Alturatotal_Palermo.svg.
//
// # Chart Conventions
//
// Y-axis tick labels are emitted as text elements anchored at x="-5":
//
//	<text x="-5" y="412.5" text-anchor="end">1,5</text>
//
// Labels use a comma decimal separator and may carry a trailing "m" unit.
// The chart title starts with "Altura del nivel del agua" and ends at the
// first closing parenthesis (the station/datum note).
//
// # Draft Table
//
// Each tide key (0.1 m steps, -0.1 to 2.2) maps to the vessel draft with
// gangway in meters. A tick is rewritten only when its value lies within
// Tolerance of a key; everything else in the chart is left byte-for-byte
// unchanged.
package domain
