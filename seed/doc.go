// This file is part of Sketchbook.
//
// Sketchbook is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Sketchbook is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Sketchbook.  If not, see <https://www.gnu.org/licenses/>.

// Package seed loads or mints the seed for a new checkpoint and looks after
// the transient seed file that protects the seed while the checkpoint is being
// created.
//
// The seed file is written with SaveToFile() before any value is drawn from
// the generator created from the seed. Once the seed is recorded in the
// checkpoint record the file is removed with CleanUpFile(). If creation of
// the checkpoint fails between these two points the seed file remains on
// disk and can be found with Residual(). Residual seed files are diagnostic
// information and are never removed unless the checkpoint they belong to is
// known to be durable.
package seed
