package view

import "html/template"

type pageData struct {
	View     View
	Settings settingsResponse
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.View.Title}}</title>
<style>
html, body { margin: 0; height: 100%; background: black; color: white; font-family: sans-serif; }
.grid { display: flex; width: 100%; height: 100%; justify-content: center; }
.grid.horizontal { flex-direction: column; }
.grid.vertical { flex-direction: row; }
.band { display: grid; }
.horizontal .band { grid-auto-flow: column; }
.vertical .band { grid-auto-flow: row; }
.band.last { display: flex; flex: 1; }
.horizontal .band.last { flex-direction: row; }
.vertical .band.last { flex-direction: column; }
.band iframe { border: 0; width: 100%; aspect-ratio: 16/9; }
.band.last iframe { flex: 1; aspect-ratio: unset; height: 100%; }
.empty { display: flex; height: 100%; flex-direction: column; align-items: center; justify-content: center; }
.empty .subtitle { color: grey; }
.sidebar { position: fixed; top: 0; left: 0; display: flex; flex-direction: column; gap: 4px; padding: 4px; opacity: 0.2; }
.sidebar:hover { opacity: 1; }
.sidebar button { background: #222; color: white; border: 1px solid #444; padding: 6px; cursor: pointer; }
.modal { position: fixed; inset: 0; display: flex; align-items: center; justify-content: center; background: rgba(0, 0, 0, 0.7); }
.modal form { background: #222; padding: 16px; display: flex; flex-direction: column; gap: 8px; min-width: 280px; }
.modal .error { color: tomato; }
</style>
</head>
<body>
{{- $v := .View}}
{{- if $v.Empty}}
<div class="empty">
  <div><b>No Streams Online Currently</b></div>
  <div class="subtitle">Listening for new streams</div>
</div>
{{- else}}
{{- $grid := $v.Grid}}
<div class="grid {{$v.Orientation}}">
{{- range $i, $row := $grid.Rows}}
  <div class="band{{if $grid.IsLast $i}} last{{end}}">
  {{- range $row}}
    <iframe title="{{.Name}}" src="{{.Embed}}" allowfullscreen></iframe>
  {{- end}}
  </div>
{{- end}}
</div>
{{- end}}
<nav class="sidebar">
  <button id="rotate" type="button" title="Rotate">Rotate</button>
  <button id="open-settings" type="button" title="Settings">Settings</button>
</nav>
{{- if $v.SettingsOpen}}
{{- with .Settings}}
<div class="modal">
  <form id="settings">
    <label>Orientation
      <select name="orientation">
        <option value="horizontal"{{if eq (print .Orientation) "horizontal"}} selected{{end}}>Horizontal</option>
        <option value="vertical"{{if eq (print .Orientation) "vertical"}} selected{{end}}>Vertical</option>
      </select>
    </label>
    <label>Ignore list
      <input name="ignoreList" type="text" value="{{.IgnoreList}}" placeholder="channel1,channel2">
    </label>
    <label>Number of columns
      <input name="numberOfColumns" type="number" min="1" value="{{.NumberOfColumns}}">
    </label>
    <div class="error" id="settings-error"></div>
    <div>
      <button type="submit">Save</button>
      <button id="close-settings" type="button">Close</button>
    </div>
  </form>
</div>
{{- end}}
{{- end}}
<script>
history.replaceState(null, {{$v.Title}}, {{$v.Path}});
var shown = [{{$v.Path}}, {{$v.Orientation}}, {{$v.Grid.RowSize}}, {{$v.SettingsOpen}}].join(" ");
new EventSource("/api/events").addEventListener("view", function (e) {
  var v = JSON.parse(e.data);
  // "/" renders the live set without reseeding it.
  if ([v.path, v.orientation, v.grid.rowSize, v.settingsOpen].join(" ") !== shown) { location.replace("/"); }
});
function post(url) { return fetch(url, { method: "POST" }); }
document.getElementById("rotate").onclick = function () { post("/api/rotate"); };
document.getElementById("open-settings").onclick = function () { post("/api/settings/open"); };
var form = document.getElementById("settings");
if (form) {
  document.getElementById("close-settings").onclick = function () { post("/api/settings/close"); };
  form.onsubmit = function (e) {
    e.preventDefault();
    var body = {
      orientation: form.orientation.value,
      ignoreList: form.ignoreList.value,
      numberOfColumns: form.numberOfColumns.value
    };
    fetch("/api/settings", {
      method: "PUT",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify(body)
    }).then(function (res) {
      if (res.ok) { return post("/api/settings/close"); }
      return res.json().then(function (b) { document.getElementById("settings-error").textContent = b.error; });
    });
  };
}
</script>
</body>
</html>
`))
