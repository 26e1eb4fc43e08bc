package web

const indexHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>freebee monitor</title>
<style>
body { background: #111; color: #ddd; font-family: monospace; }
#grid { display: grid; grid-template-columns: repeat(16, 2em); gap: 2px; }
.cell { height: 2em; text-align: center; line-height: 2em; font-size: 1.4em; }
#leds span { font-size: 1.6em; margin-right: 4px; }
</style>
</head>
<body>
<h1>freebee</h1>
<div id="grid"></div>
<p id="leds"></p>
<pre id="stats"></pre>
<script>
const normal = "▁▂▃▄▅▆▇█";
const flipped = "▔🮂🮃▀🮄🮅🮆█";
function draw(status) {
  const snap = status.snapshot;
  const glyphs = Array.from(snap.orientation === "flipped" ? flipped : normal);
  const grid = document.getElementById("grid");
  grid.innerHTML = "";
  snap.cells.forEach(row => row.forEach((g, col) => {
    const d = document.createElement("div");
    d.className = "cell";
    d.style.background = status.backlight[col];
    d.textContent = g < 0 ? " " : glyphs[g];
    grid.appendChild(d);
  }));
  document.getElementById("leds").innerHTML =
    snap.leds.map(on => "<span>" + (on ? "●" : "○") + "</span>").join("");
  document.getElementById("stats").textContent =
    "uptime " + status.uptime + "  received " + status.stats.received +
    "  malformed " + status.stats.malformed + "  painted " + status.stats.painted;
}
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = ev => draw(JSON.parse(ev.data));
fetch("/api/status").then(r => r.json()).then(draw);
</script>
</body>
</html>
`
