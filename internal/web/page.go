package web

// pageTpl is the whole page. The "results" template is also served alone as
// the fragment for in-page searches.
const pageTpl = `{{define "results"}}<h2 id="results-heading">{{.Heading}}</h2>
<div class="movie-grid" id="results">
{{- range .Nodes}}
{{- if .Unit}}
  <div class="movie-card" data-title-id="{{.Unit.TitleID}}" tabindex="0">
    {{with imageURL .Unit.Image}}<img src="{{.}}" alt="" loading="lazy">{{else}}<div class="poster-placeholder">🎬</div>{{end}}
    <div class="movie-info">
      <h3>{{.Unit.Name}}</h3>
      <p class="meta">{{.Unit.Theme}}{{with .Unit.Type}} · {{.}}{{end}}{{with .Unit.Year}} · {{.}}{{end}}{{with .Unit.Length}} · {{.}}{{end}}</p>
      <button class="play-button violet-button" data-title-id="{{.Unit.TitleID}}">▶ Play</button>
    </div>
  </div>
{{- else}}
  <p class="no-results">{{.Placeholder}}</p>
{{- end}}
{{- end}}
</div>{{end}}<!doctype html>
<html lang="en">
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>cinedeck</title>
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto;background:#1a1b26;color:#c0caf5;max-width:1200px;margin:0 auto;padding:1rem}
a{color:#7aa2f7}
header{display:flex;justify-content:space-between;align-items:center;gap:12px;flex-wrap:wrap;margin-bottom:1rem}
header h1{margin:0;color:#bb9af7}
.violet-button{background:#bb9af7;color:#1a1b26;border:0;border-radius:6px;padding:6px 12px;cursor:pointer;text-decoration:none;font-weight:600;display:inline-block}
.violet-button:hover{background:#9d7cd8}
.search{position:relative}
.search input{background:#24283b;color:#c0caf5;border:1px solid #3b4261;border-radius:6px;padding:6px 10px;width:260px}
#suggestions{position:absolute;top:100%;left:0;right:0;background:#24283b;border:1px solid #3b4261;border-radius:6px;list-style:none;margin:2px 0 0;padding:0;z-index:5;display:none}
#suggestions.visible{display:block}
#suggestions li{padding:6px 10px;cursor:pointer}
#suggestions li:hover{background:#3b4261}
.themes{margin-bottom:1rem}
#theme-buttons-wrapper{display:none;flex-wrap:wrap;gap:6px;margin-top:8px}
#theme-buttons-wrapper.open{display:flex}
.categories{margin:8px 0;color:#565f89}
.movie-grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(200px,1fr));gap:16px}
.movie-card{background:#24283b;border-radius:8px;overflow:hidden;cursor:pointer}
.movie-card:hover{outline:2px solid #bb9af7}
.movie-card img,.poster-placeholder{width:100%;height:280px;object-fit:cover;display:flex;align-items:center;justify-content:center;font-size:3rem;background:#1f2335}
.movie-info{padding:8px 10px}
.movie-info h3{margin:0 0 4px;font-size:1rem}
.meta{color:#565f89;margin:0 0 8px;font-size:.85rem}
.no-results{color:#f7768e}
#video-modal{position:fixed;inset:0;background:rgba(0,0,0,.8);display:none;align-items:center;justify-content:center;z-index:10}
#video-modal .modal-content{background:#1a1b26;border:1px solid #bb9af7;border-radius:8px;padding:12px;width:min(900px,95vw)}
#video-modal .modal-header{display:flex;justify-content:space-between;align-items:center}
#modal-movie-title{margin:0 0 8px}
#close-video-modal{background:none;border:0;color:#c0caf5;font-size:1.5rem;cursor:pointer}
#notice{color:#f7768e;min-height:1.2em}
</style>
<body data-page="{{.Page}}" data-page-path="{{.PagePath}}" data-provider="{{.Provider}}" data-blur-grace="{{.BlurGraceMs}}">
<header>
  <h1><a href="/" style="color:inherit;text-decoration:none">🎬 cinedeck</a></h1>
  <form class="search" id="search-form" role="search" autocomplete="off">
    <input id="search-input" name="search" type="search" placeholder="Search movies..." value="{{.Query}}" aria-label="Search">
    <button id="search-button" class="violet-button" type="submit">Search</button>
    <ul id="suggestions" role="listbox"></ul>
  </form>
  <a class="violet-button" href="/theme">All Movies</a>
</header>

<section class="themes">
  <button id="theme-dropdown-toggle" class="violet-button" type="button" aria-expanded="false">Themes ▾</button>
  <div id="theme-buttons-wrapper">
  {{- range .Themes}}
    <a class="theme-button violet-button" href="{{.Href}}">{{.Name}}</a>
  {{- end}}
  </div>
  {{- if .Categories}}
  <div class="categories">Categories:
  {{- range .Categories}} <a href="{{.Href}}">{{.Name}}</a>{{end}}
  </div>
  {{- end}}
</section>

<div id="notice" aria-live="polite"></div>
<section id="results-section">{{template "results" .Results}}</section>

<div id="video-modal" role="dialog" aria-modal="true">
  <div class="modal-content">
    <div class="modal-header">
      <h2 id="modal-movie-title"></h2>
      <button id="close-video-modal" aria-label="Close">&times;</button>
    </div>
    <div id="player-mount"></div>
  </div>
</div>

<script>
(function(){
  var body = document.body;
  var page = body.getAttribute('data-page');
  var pagePath = body.getAttribute('data-page-path');
  var provider = body.getAttribute('data-provider');
  var blurGrace = parseInt(body.getAttribute('data-blur-grace'), 10) || 200;
  var section = document.getElementById('results-section');
  var form = document.getElementById('search-form');
  var input = document.getElementById('search-input');
  var suggestions = document.getElementById('suggestions');
  var notice = document.getElementById('notice');
  var modal = document.getElementById('video-modal');
  var modalTitle = document.getElementById('modal-movie-title');
  var mount = document.getElementById('player-mount');
  var closeBtn = document.getElementById('close-video-modal');
  var themeToggle = document.getElementById('theme-dropdown-toggle');
  var themeWrapper = document.getElementById('theme-buttons-wrapper');
  var blurTimer = null;
  var openToken = 0;
  var ytPlayer = null;
  var loadedScripts = {};

  function loadScript(src, done){
    if (loadedScripts[src]) { if (done) done(); return; }
    var s = document.createElement('script');
    s.src = src;
    s.async = true;
    s.onload = function(){ loadedScripts[src] = true; if (done) done(); };
    document.head.appendChild(s);
  }

  // --- playback modal ---
  function closeModal(){
    if (modal.style.display !== 'flex') return;
    openToken++;
    if (ytPlayer && ytPlayer.destroy) { try { ytPlayer.destroy(); } catch (e) {} }
    ytPlayer = null;
    modal.style.display = 'none';
    body.style.overflow = '';
    mount.innerHTML = '';
    modalTitle.textContent = '';
  }
  function watchEnd(token){
    if (provider !== 'youtube') return;
    function attach(){
      if (token !== openToken || !window.YT || !YT.Player) return;
      ytPlayer = new YT.Player('movie-player', {
        events: { onStateChange: function(e){ if (e.data === YT.PlayerState.ENDED && token === openToken) closeModal(); } }
      });
    }
    if (window.YT && YT.Player) { attach(); return; }
    var prev = window.onYouTubeIframeAPIReady;
    window.onYouTubeIframeAPIReady = function(){ if (prev) prev(); attach(); };
    loadScript('https://www.youtube.com/iframe_api');
  }
  function openModal(id){
    closeModal();
    var token = ++openToken;
    notice.textContent = '';
    fetch('/api/play/' + encodeURIComponent(id)).then(function(res){
      return res.json().then(function(data){ return { ok: res.ok, data: data }; });
    }).then(function(r){
      if (token !== openToken) return;
      if (!r.ok) { notice.textContent = r.data.error || 'Playback failed.'; return; }
      modalTitle.textContent = r.data.name;
      mount.innerHTML = r.data.content.markup || '';
      if (r.data.content.script) loadScript(r.data.content.script);
      modal.style.display = 'flex';
      body.style.overflow = 'hidden';
      watchEnd(token);
    }).catch(function(){ notice.textContent = 'Playback failed.'; });
  }
  closeBtn.addEventListener('click', closeModal);
  modal.addEventListener('click', function(e){ if (e.target === modal) closeModal(); });
  document.addEventListener('keydown', function(e){ if (e.key === 'Escape') closeModal(); });

  // One listener for every card the results region will ever hold.
  section.addEventListener('click', function(e){
    var el = e.target.closest('[data-title-id]');
    if (el) { e.preventDefault(); e.stopPropagation(); openModal(el.getAttribute('data-title-id')); }
  });
  section.addEventListener('keydown', function(e){
    if (e.key !== 'Enter') return;
    var el = e.target.closest('.movie-card');
    if (el) { e.preventDefault(); openModal(el.getAttribute('data-title-id')); }
  });

  // --- search ---
  function loadResults(query, push){
    var params = new URLSearchParams(query);
    params.set('page', page);
    return fetch('/fragment/results?' + params.toString()).then(function(res){
      var address = res.headers.get('X-Cinedeck-Location') || pagePath;
      return res.text().then(function(html){
        section.innerHTML = html;
        if (push) history.pushState({ address: address }, '', address);
      });
    });
  }
  function hideSuggestions(){ suggestions.classList.remove('visible'); }
  form.addEventListener('submit', function(e){
    e.preventDefault();
    hideSuggestions();
    var term = input.value.trim();
    loadResults(term ? 'search=' + encodeURIComponent(term) : '', true);
  });
  window.addEventListener('popstate', function(){
    var params = new URLSearchParams(window.location.search);
    input.value = params.get('search') || '';
    loadResults(window.location.search.slice(1), false);
  });

  // --- suggestions ---
  var suggestSeq = 0;
  input.addEventListener('input', function(){
    var q = input.value.trim();
    var seq = ++suggestSeq;
    if (!q) { suggestions.innerHTML = ''; hideSuggestions(); return; }
    fetch('/api/suggest?q=' + encodeURIComponent(q)).then(function(res){ return res.json(); }).then(function(items){
      if (seq !== suggestSeq) return;
      suggestions.innerHTML = '';
      items.forEach(function(item){
        var li = document.createElement('li');
        li.textContent = item.name;
        li.setAttribute('role', 'option');
        suggestions.appendChild(li);
      });
      suggestions.classList.toggle('visible', items.length > 0);
    });
  });
  suggestions.addEventListener('click', function(e){
    var li = e.target.closest('li');
    if (!li) return;
    input.value = li.textContent;
    form.requestSubmit();
  });
  input.addEventListener('blur', function(){
    clearTimeout(blurTimer);
    blurTimer = setTimeout(hideSuggestions, blurGrace);
  });
  input.addEventListener('focus', function(){
    clearTimeout(blurTimer);
    if (suggestions.children.length) suggestions.classList.add('visible');
  });

  // --- themes ---
  themeToggle.addEventListener('click', function(){
    var open = themeWrapper.classList.toggle('open');
    themeToggle.setAttribute('aria-expanded', open ? 'true' : 'false');
  });
})();
</script>
</body>
</html>
`
