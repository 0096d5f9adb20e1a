package arbor_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	arbor "github.com/aretw0/arbor"
)

// ExampleNew demonstrates building a small behavior tree through the
// editing session and serializing it.
func ExampleNew() {
	// 1. Initialize the editor. Settings go to a throwaway location so
	// the example never touches the user config directory.
	settingsPath := filepath.Join(os.TempDir(), "arbor-example", "settings.yaml")
	ed, err := arbor.New(arbor.WithSettingsPath(settingsPath))
	if err != nil {
		log.Fatal(err)
	}
	sess := ed.Session()

	// 2. Build Root -> Sequence -> Retry(num_attempts=3)
	rootID, err := sess.InsertNode("", "Root")
	if err != nil {
		log.Fatal(err)
	}
	seqID, err := sess.InsertNode(rootID, "Sequence")
	if err != nil {
		log.Fatal(err)
	}
	retryID, err := sess.InsertNode(seqID, "Retry")
	if err != nil {
		log.Fatal(err)
	}
	if err := sess.SetParameter(retryID, "num_attempts", "3"); err != nil {
		log.Fatal(err)
	}

	// 3. Every edit is undoable, and the document passes the save gate.
	fmt.Println("can undo:", sess.CanUndo())
	fmt.Println("can save:", sess.CanSave())

	// 4. Serialize; the document comes back as portable XML.
	text, err := sess.EncodeXML()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("serialized:", len(text) > 0)

	// Output:
	// can undo: true
	// can save: true
	// serialized: true
}
