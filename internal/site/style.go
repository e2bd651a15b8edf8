package site

// cssContent is the stylesheet shared by exported post pages.
const cssContent = `:root {
  --bg: #ffffff;
  --text: #1f2328;
  --text-light: #656d76;
  --accent: #0969da;
  --border: #d0d7de;
}
[data-theme="dark"] {
  --bg: #0d1117;
  --text: #e6edf3;
  --text-light: #8d96a0;
  --accent: #4493f8;
  --border: #30363d;
}
body {
  margin: 0;
  background: var(--bg);
  color: var(--text);
  font-family: -apple-system, "Apple SD Gothic Neo", "Noto Sans KR", sans-serif;
  line-height: 1.7;
}
.post {
  max-width: 760px;
  margin: 0 auto;
  padding: 2rem 1.25rem 4rem;
}
.top-bar {
  display: flex;
  justify-content: space-between;
  align-items: center;
}
.back-link, a {
  color: var(--accent);
  text-decoration: none;
}
.theme-toggle {
  background: none;
  border: 1px solid var(--border);
  border-radius: 6px;
  color: var(--text);
  cursor: pointer;
  padding: 0.25rem 0.5rem;
}
.post-meta {
  color: var(--text-light);
  font-size: 0.9rem;
  display: flex;
  gap: 0.75rem;
}
.post-body pre {
  overflow-x: auto;
  padding: 1rem;
  border: 1px solid var(--border);
  border-radius: 6px;
}
.post-body table {
  border-collapse: collapse;
}
.post-body th, .post-body td {
  border: 1px solid var(--border);
  padding: 0.4rem 0.75rem;
}
`
