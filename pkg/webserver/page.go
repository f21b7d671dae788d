package webserver

import "html/template"

type pageData struct {
	WebSocketURL string
	BrakeURL     string
	ThrottleURL  string
}

var homeTemplate = template.Must(template.New("").Parse(`
<!DOCTYPE html>
<html lang="fr">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>rFactor2 Télémétrie</title>
  <style>
    body { font-family: sans-serif; background: #111827; color: #f3f4f6; margin: 2em; }
    .status { padding: .4em .8em; border-radius: 4px; display: inline-block; }
    .status.connected { background: #065f46; }
    .status.disconnected { background: #7f1d1d; }
    .grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 1em; margin-top: 1em; }
    .card { background: #1f2937; padding: 1em; border-radius: 6px; }
    .value { font-size: 2.5em; font-weight: bold; }
    .reverse { color: #ef4444; }
    .neutral { color: #f59e0b; }
    .bar { background: #374151; height: 12px; border-radius: 6px; overflow: hidden; }
    .fill { height: 100%; }
    #brakeFill { background: rgb(239, 68, 68); }
    #throttleFill { background: rgb(16, 185, 129); }
    .hidden { display: none; }
    img.chart { width: 100%; }
  </style>
</head>
<body>
  <h1>Télémétrie rFactor2</h1>
  <div id="status" class="status disconnected">Connexion...</div>

  <div class="grid">
    <div class="card"><h3>Rapport</h3>
      <div id="gearValue" class="value">-</div><div id="gearDescription"></div></div>
    <div class="card"><h3>Frein</h3>
      <div id="brakeValue" class="value">0%</div>
      <div class="bar"><div id="brakeFill" class="fill" style="width:0%"></div></div></div>
    <div class="card"><h3>Accélérateur</h3>
      <div id="throttleValue" class="value">0%</div>
      <div class="bar"><div id="throttleFill" class="fill" style="width:0%"></div></div></div>
    <div class="card"><h3>Session</h3>
      <div id="sessionValue" class="value">-</div><div id="sessionDescription"></div></div>
    <div class="card"><h3>Circuit</h3><div id="trackValue">-</div></div>
    <div class="card"><h3>Véhicule</h3><div id="vehicleValue">-</div></div>
  </div>

  <div class="grid">
    <div class="card"><h3>Frein</h3><img class="chart" id="brakeChart" src="{{ .BrakeURL }}"></div>
    <div class="card"><h3>Accélérateur</h3><img class="chart" id="throttleChart" src="{{ .ThrottleURL }}"></div>
  </div>

  <button id="exportButton" class="hidden">Exporter les données</button>

  <script>
    const wsUrl = '{{ .WebSocketURL }}';
    const brakeUrl = '{{ .BrakeURL }}';
    const throttleUrl = '{{ .ThrottleURL }}';
    const $ = (id) => document.getElementById(id);

    function render(s) {
      $('status').textContent = s.status;
      $('status').className = 'status ' + s.statusClass;
      $('gearValue').textContent = s.gear.value;
      $('gearValue').className = 'value ' + s.gear.class;
      $('gearDescription').textContent = s.gear.description;
      $('brakeValue').textContent = s.brake.text;
      $('brakeFill').style.width = s.brake.fill + '%';
      $('throttleValue').textContent = s.throttle.text;
      $('throttleFill').style.width = s.throttle.fill + '%';
      $('sessionValue').textContent = s.session.value;
      $('sessionValue').className = 'value ' + s.session.class;
      $('sessionDescription').textContent = s.session.description;
      $('trackValue').textContent = s.track;
      $('vehicleValue').textContent = s.vehicle;
      $('exportButton').classList.toggle('hidden', !s.exportVisible);
      $('exportButton').disabled = s.exportBusy;
      $('exportButton').textContent = s.exportBusy ? 'Export en cours...' : 'Exporter les données';
    }

    function connect() {
      const socket = new WebSocket(wsUrl);
      socket.addEventListener('message', (event) => {
        const msg = JSON.parse(event.data);
        if (msg.type === 'state') {
          render(msg.payload);
        } else if (msg.type === 'alert') {
          alert(msg.payload.message);
        }
      });
      socket.addEventListener('close', () => setTimeout(connect, 1000));
    }

    $('exportButton').addEventListener('click', () => {
      fetch('/api/export', { method: 'POST' }).catch((err) => console.error(err));
    });

    setInterval(() => {
      const t = Date.now();
      $('brakeChart').src = brakeUrl + '?t=' + t;
      $('throttleChart').src = throttleUrl + '?t=' + t;
    }, 500);

    connect();
  </script>
</body>
</html>
`))
