package geo

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"stadium/api/codes"
	"stadium/api/log"
)

// previewPage renders the map onto a canvas client-side. The GeoJSON payload
// is inlined so the page works standalone when saved to disk.
const previewPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Stadium Map Preview</title>
<style>
body { margin: 0; font-family: sans-serif; background: #111; color: #ddd; }
#hud { position: fixed; top: 8px; left: 8px; }
canvas { display: block; }
</style>
</head>
<body>
<div id="hud">level {{.Level}} &middot; <span id="count"></span> features</div>
<canvas id="map"></canvas>
<script>
var fc = {{.Payload}};
var colors = {
  corridor: "#555", row_aisle: "#444", seat: "#2d6cdf", gate: "#e0a800",
  stairs: "#9b59b6", ramp: "#9b59b6", restroom: "#1abc9c", food: "#e74c3c",
  bar: "#e67e22", merchandise: "#f1c40f", first_aid: "#ff5c77",
  emergency_exit: "#2ecc71", information: "#3498db", vip_box: "#d4af37"
};
var canvas = document.getElementById("map");
canvas.width = window.innerWidth;
canvas.height = window.innerHeight;
var ctx = canvas.getContext("2d");

var pts = fc.features.filter(function (f) { return f.geometry.type === "Point"; });
var xs = pts.map(function (f) { return f.geometry.coordinates[0]; });
var ys = pts.map(function (f) { return f.geometry.coordinates[1]; });
var minX = Math.min.apply(null, xs), maxX = Math.max.apply(null, xs);
var minY = Math.min.apply(null, ys), maxY = Math.max.apply(null, ys);
var pad = 30;
function sx(x) { return pad + (x - minX) / (maxX - minX || 1) * (canvas.width - 2 * pad); }
function sy(y) { return pad + (y - minY) / (maxY - minY || 1) * (canvas.height - 2 * pad); }

fc.features.forEach(function (f) {
  if (f.geometry.type !== "LineString") return;
  var a = f.geometry.coordinates[0], b = f.geometry.coordinates[1];
  ctx.strokeStyle = f.properties.accessible ? "#333" : "#802020";
  ctx.beginPath();
  ctx.moveTo(sx(a[0]), sy(a[1]));
  ctx.lineTo(sx(b[0]), sy(b[1]));
  ctx.stroke();
});
pts.forEach(function (f) {
  var c = f.geometry.coordinates;
  ctx.fillStyle = colors[f.properties.type] || "#888";
  ctx.beginPath();
  ctx.arc(sx(c[0]), sy(c[1]), f.properties.type === "seat" ? 1.5 : 3, 0, 2 * Math.PI);
  ctx.fill();
});
document.getElementById("count").textContent = fc.features.length;
</script>
</body>
</html>`

var previewTmpl = template.Must(template.New("preview").Parse(previewPage))

// Preview serves an HTML canvas rendering of one level of the map.
func Preview(c *gin.Context) {
	p := parseGeoJsonParams(c)
	if p.level == "" {
		p.level = "0"
	}

	fc, err := buildFeatureCollection(p)
	if err != nil {
		log.Error("preview error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	payload, err := json.Marshal(fc)
	if err != nil {
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}

	var buf bytes.Buffer
	err = previewTmpl.Execute(&buf, map[string]any{
		"Level":   p.level,
		"Payload": template.JS(payload),
	})
	if err != nil {
		log.Error("preview template error", err)
		fail(c, codes.CODE_ERR_DB, err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
