package templates

import "fmt"

func nodeExpress(name string) FileSet {
	return FileSet{
		"app.js": fmt.Sprintf(`const express = require('express');

const app = express();
app.use(express.json());

const items = new Map();

app.get('/', (req, res) => {
  res.json({ service: %q, status: 'running' });
});

app.get('/health', (req, res) => {
  res.json({ status: 'healthy' });
});

app.get('/items', (req, res) => {
  res.json([...items.values()]);
});

app.post('/items', (req, res) => {
  const item = req.body;
  if (!item || item.id === undefined) {
    return res.status(400).json({ error: 'id is required' });
  }
  items.set(item.id, item);
  res.status(201).json(item);
});

module.exports = app;

if (require.main === module) {
  const port = process.env.PORT || 3000;
  app.listen(port, () => console.log('listening on ' + port));
}
`, name),
		"app.test.js": `const request = require('supertest');
const app = require('./app');

test('health endpoint', async () => {
  const res = await request(app).get('/health');
  expect(res.statusCode).toBe(200);
  expect(res.body.status).toBe('healthy');
});

test('create and list items', async () => {
  await request(app).post('/items').send({ id: 1, name: 'widget' }).expect(201);
  const res = await request(app).get('/items');
  expect(res.body.length).toBeGreaterThan(0);
});
`,
		"package.json": fmt.Sprintf(`{
  "name": %q,
  "version": "1.0.0",
  "main": "app.js",
  "scripts": {
    "start": "node app.js",
    "test": "jest"
  },
  "dependencies": {
    "express": "^4.18.2"
  },
  "devDependencies": {
    "jest": "^29.7.0",
    "supertest": "^6.3.3"
  }
}
`, name),
	}
}

func nodeWeb(name string) FileSet {
	return FileSet{
		"index.html": fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>%s</title>
</head>
<body>
  <h1>%s</h1>
  <div id="app"></div>
  <script src="index.js"></script>
</body>
</html>
`, name, name),
		"index.js": `document.getElementById('app').textContent = 'ready';
`,
		"package.json": fmt.Sprintf(`{
  "name": %q,
  "version": "1.0.0",
  "scripts": {
    "test": "jest"
  },
  "devDependencies": {
    "jest": "^29.7.0"
  }
}
`, name),
	}
}

func nodeCLI(name string) FileSet {
	return FileSet{
		"index.js": fmt.Sprintf(`#!/usr/bin/env node

function run(args) {
  if (args.includes('--help')) {
    console.log('usage: %s [input]');
    return 0;
  }
  console.log('ok');
  return 0;
}

module.exports = { run };

if (require.main === module) {
  process.exit(run(process.argv.slice(2)));
}
`, name),
		"index.test.js": `const { run } = require('./index');

test('run returns zero', () => {
  expect(run([])).toBe(0);
});
`,
		"package.json": fmt.Sprintf(`{
  "name": %q,
  "version": "1.0.0",
  "bin": { %q: "index.js" },
  "scripts": {
    "test": "jest"
  },
  "devDependencies": {
    "jest": "^29.7.0"
  }
}
`, name, name),
	}
}

func nodeBasic(name string) FileSet {
	return FileSet{
		"index.js": fmt.Sprintf(`function main() {
  console.log('Hello from %s');
}

module.exports = { main };

if (require.main === module) {
  main();
}
`, name),
		"index.test.js": `const { main } = require('./index');

test('main does not throw', () => {
  expect(() => main()).not.toThrow();
});
`,
		"package.json": fmt.Sprintf(`{
  "name": %q,
  "version": "1.0.0",
  "main": "index.js",
  "scripts": {
    "start": "node index.js",
    "test": "jest"
  },
  "devDependencies": {
    "jest": "^29.7.0"
  }
}
`, name),
	}
}

func typescriptBasic(name string) FileSet {
	return FileSet{
		"src/index.ts": fmt.Sprintf(`export function greet(): string {
  return 'Hello from %s';
}

if (require.main === module) {
  console.log(greet());
}
`, name),
		"src/index.test.ts": `import { greet } from './index';

test('greet', () => {
  expect(greet()).toContain('Hello');
});
`,
		"package.json": fmt.Sprintf(`{
  "name": %q,
  "version": "1.0.0",
  "scripts": {
    "build": "tsc",
    "test": "jest"
  },
  "devDependencies": {
    "@types/jest": "^29.5.0",
    "@types/node": "^20.0.0",
    "jest": "^29.7.0",
    "ts-jest": "^29.1.0",
    "typescript": "^5.0.0"
  }
}
`, name),
		"tsconfig.json": `{
  "compilerOptions": {
    "target": "ES2020",
    "module": "commonjs",
    "outDir": "dist",
    "strict": true
  },
  "include": ["src"]
}
`,
	}
}
