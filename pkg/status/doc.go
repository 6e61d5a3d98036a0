/*
Package status reports pipeline step progress to the user.

🎯 Purpose:
- Prints a start line when a step begins and a done line when it ends
- Prints failures without stopping anything
- Remembers each step's outcome so callers and tests can inspect it

📝 Notes:
The reporter never aggregates failures into a final verdict. A failed step is
printed where it happens and the pipeline moves on; Steps() is only a record.
*/
package status
