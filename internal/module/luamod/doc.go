// Package luamod resolves project-specific editing modules written in Lua.
//
// A project may ship its own modules under <project>/CustomModules. A dotted
// identifier maps onto that tree with dots as path separators, so
// "custom.MapPatch" resolves to CustomModules/custom/MapPatch.lua. The chunk
// must define a global table named by the identifier's final component; an
// optional compatible_with(romtype) function on that table gates the module
// to specific ROM types (absent means compatible with everything).
//
// While a chunk runs, the CustomModules directory is prepended to the Lua
// package.path so modules can require their own helpers. The extension is
// scoped to the resolution call and restored on every exit path.
//
// gopher-lua's LState is not goroutine-safe. The Resolver serializes all
// Lua execution, including compatibility checks on resolved modules, behind
// a single mutex.
package luamod
