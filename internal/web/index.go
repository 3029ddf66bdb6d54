package web

// Portfolio dashboard: allocation doughnut, positions table and add form.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Stocker</title>
  <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
  <link rel="preconnect" href="https://fonts.googleapis.com">
  <link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
  <link href="https://fonts.googleapis.com/css2?family=Press+Start+2P&family=Space+Mono:wght@400;700&display=swap" rel="stylesheet">
  <style>
    :root {
      --bg:#ffffff;
      --ink:#111111;
      --ink-mid:#4d4d4d;
      --ink-soft:#9c9c9c;
      --panel:#f6f6f6;
      --warn:#d7263d;
    }
    * { box-sizing:border-box; }
    body {
      margin:0;
      min-height:100vh;
      display:flex;
      align-items:center;
      justify-content:center;
      padding:2rem;
      background:var(--bg);
      color:var(--ink);
      font-family:'Space Mono','JetBrains Mono',monospace;
    }
    body::before {
      content:'';
      position:fixed;
      inset:0;
      background:
        linear-gradient(90deg, rgba(0,0,0,.02) 1px, transparent 1px),
        linear-gradient(rgba(0,0,0,.02) 1px, transparent 1px);
      background-size:12px 12px;
      pointer-events:none;
    }
    #app {
      width:min(1200px, 96vw);
      background:var(--panel);
      border:3px solid var(--ink);
      padding:2rem;
      box-shadow:12px 12px 0 rgba(0,0,0,.15);
      display:grid;
      grid-template-columns:1fr 380px;
      gap:2rem;
    }
    header { display:flex; justify-content:space-between; align-items:flex-start; gap:1rem; grid-column:1 / -1; }
    .eyebrow {
      font-family:'Press Start 2P','Space Mono',monospace;
      font-size:.55rem;
      text-transform:uppercase;
      letter-spacing:.2em;
      margin:0;
    }
    .status {
      font-size:.65rem;
      text-transform:uppercase;
      letter-spacing:.1em;
      border:2px solid var(--ink);
      padding:.4rem .9rem;
      background:#ffffff;
      box-shadow:4px 4px 0 rgba(0,0,0,.15);
    }
    .card {
      border:3px solid var(--ink);
      padding:1.5rem;
      background:#fff;
      box-shadow:8px 8px 0 rgba(0,0,0,.15);
    }
    table { width:100%; border-collapse:collapse; font-size:.8rem; }
    th, td { border-bottom:1px dashed var(--ink-soft); padding:.4rem; text-align:right; }
    th:first-child, td:first-child { text-align:left; }
    td.weight { font-weight:700; }
    .total { margin-top:1rem; font-weight:700; }
    .empty-state { color:var(--ink-mid); font-size:.8rem; }
    form { display:flex; flex-direction:column; gap:.6rem; }
    input, button {
      font-family:inherit;
      font-size:.8rem;
      border:2px solid var(--ink);
      padding:.4rem .6rem;
      background:#fff;
    }
    button { cursor:pointer; box-shadow:3px 3px 0 rgba(0,0,0,.15); }
    button:disabled { color:var(--ink-soft); cursor:not-allowed; }
    .warning { color:var(--warn); font-size:.7rem; min-height:1em; }
    .row-actions button { padding:.1rem .4rem; font-size:.7rem; }
  </style>
</head>
<body>
  <div id="app">
    <header>
      <p class="eyebrow">stocker portfolio</p>
      <div id="sse-status" class="status">Connecting…</div>
    </header>
    <section class="card">
      <canvas id="allocation" height="320"></canvas>
      <div id="positions"></div>
    </section>
    <aside class="card">
      <form id="addForm" autocomplete="off">
        <input name="ticker" placeholder="Ticker" />
        <input name="quote" placeholder="Quote ($)" />
        <input name="amount" placeholder="Amount" />
        <div id="duplicate" class="warning"></div>
        <button type="submit" id="addButton" disabled>Add</button>
      </form>
      <p><button id="resetButton">Remove all</button></p>
    </aside>
  </div>
<script>
const statusEl = document.getElementById('sse-status');
const positionsEl = document.getElementById('positions');
const form = document.getElementById('addForm');
const addButton = document.getElementById('addButton');
const duplicateEl = document.getElementById('duplicate');
const palette = ['#FF6384','#36A2EB','#FFCD56','#3C5291','#CBA135','#862633','#E59E6D','#5D3754'];
let currency = 'USD';

const chart = new Chart(document.getElementById('allocation'), {
  type: 'doughnut',
  data: { labels: [], datasets: [{ data: [], backgroundColor: palette }] },
  options: {
    plugins: {
      tooltip: {
        callbacks: {
          label: (ctx) => {
            const values = ctx.dataset.data;
            const sum = values.reduce((a, b) => a + b, 0);
            const share = sum > 0 ? (ctx.parsed / sum * 100).toFixed(1) : '0.0';
            const value = new Intl.NumberFormat('en-US', { style:'currency', currency, maximumFractionDigits:0 }).format(ctx.parsed);
            return ctx.label + ' - ' + share + '% - ' + value;
          }
        }
      }
    }
  }
});

function drawChart(frame){
  chart.data.labels = frame.labels || [];
  chart.data.datasets[0].data = frame.series || [];
  chart.update();
}

function money(value){
  return new Intl.NumberFormat('en-US', { style:'currency', currency }).format(Number(value));
}

// el builds an element whose text is set with textContent, never parsed as markup.
function el(tag, text, className){
  const node = document.createElement(tag);
  if(text !== undefined) node.textContent = text;
  if(className) node.className = className;
  return node;
}

function drawTable(table){
  positionsEl.replaceChildren();
  if(table.empty){
    positionsEl.append(el('p', 'No positions yet. Add a ticker, quote and amount.', 'empty-state'));
    return;
  }

  const head = el('tr');
  ['Ticker', 'Quote ($)', 'Amount', 'Total ($)', 'Weight (%)', ''].forEach((h) => head.append(el('th', h)));

  const body = el('tbody');
  table.rows.forEach((r) => {
    const tr = el('tr');
    tr.append(el('td', r.ticker), el('td', r.quote), el('td', r.amount), el('td', r.total), el('td', r.weight, 'weight'));

    const btn = el('button', 'x');
    btn.dataset.ticker = r.ticker;
    btn.dataset.quote = r.quote;
    btn.dataset.amount = r.amount;
    const actions = el('td', undefined, 'row-actions');
    actions.append(btn);
    tr.append(actions);

    body.append(tr);
  });

  const thead = el('thead');
  thead.append(head);
  const tbl = el('table');
  tbl.append(thead, body);
  positionsEl.append(tbl, el('div', 'Total: ' + money(table.total), 'total'));
}

function render(payload){
  currency = payload.currency || currency;
  drawTable(payload.table);
  drawChart(payload.chart);
}

async function call(method, url, body){
  const res = await fetch(url, {
    method,
    headers: body ? { 'Content-Type':'application/json' } : {},
    body: body ? JSON.stringify(body) : undefined
  });
  const payload = await res.json();
  if(!res.ok){
    throw Object.assign(new Error(payload.error), { status: res.status });
  }
  render(payload);
}

function validNumber(v){
  const n = Number(String(v).trim());
  return String(v).trim() !== '' && Number.isFinite(n) && n > 0;
}

function canSubmit(){
  return form.ticker.value.trim() !== '' && validNumber(form.quote.value) && validNumber(form.amount.value);
}

form.addEventListener('input', (event) => {
  if(event.target.name === 'ticker'){
    duplicateEl.textContent = '';
  }
  addButton.disabled = !canSubmit();
});

form.addEventListener('submit', async (event) => {
  event.preventDefault();
  if(!canSubmit()) return;
  try{
    await call('POST', '/api/positions', {
      ticker: form.ticker.value, quote: form.quote.value, amount: form.amount.value
    });
    form.reset();
    addButton.disabled = true;
  }catch(err){
    if(err.status === 409){
      duplicateEl.textContent = 'Ticker already in portfolio';
    }else{
      console.error('add position', err);
    }
  }
});

positionsEl.addEventListener('click', async (event) => {
  const btn = event.target.closest('button[data-ticker]');
  if(!btn) return;
  const { ticker, quote, amount } = btn.dataset;
  if(!confirm('Remove ' + ticker + ' from list (quote: $' + quote + ', amount: ' + amount + ')?')) return;
  const params = new URLSearchParams({ quote, amount });
  try{
    await call('DELETE', '/api/positions/' + encodeURIComponent(ticker) + '?' + params);
  }catch(err){
    console.error('remove position', err);
  }
});

document.getElementById('resetButton').addEventListener('click', async () => {
  if(!confirm('Remove all previously added data?')) return;
  try{
    await call('DELETE', '/api/positions');
  }catch(err){
    console.error('reset', err);
  }
});

function connectSSE(){
  const source = new EventSource('/chart/stream');
  statusEl.textContent = 'Status: live';
  source.addEventListener('chart', (event) => {
    try{
      drawChart(JSON.parse(event.data));
    }catch(err){
      console.error('payload parse', err);
    }
  });
  source.addEventListener('error', () => {
    statusEl.textContent = 'Reconnecting…';
    source.close();
    setTimeout(connectSSE, 2000);
  });
}

fetch('/api/positions').then((r) => r.json()).then(render).catch((err) => console.error('load positions', err));
connectSSE();
</script>
</body>
</html>
`
